package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/intern-matcher/internal/session"
)

const (
	app       = "intern-matcher"
	envPrefix = "INTERN_MATCHER"
)

type Config struct {
	// Profile is decoded by the profile package so skills may also be comma separated.
	Profile map[string]any `mapstructure:"profile"`
	Catalog CatalogConfig  `mapstructure:"catalog"`
	Filters FiltersConfig  `mapstructure:"filters"`
	Session session.Config `mapstructure:"session"`
	Server  ServerConfig   `mapstructure:"server"`
}

type CatalogConfig struct {
	Files []string `mapstructure:"files"`
}

type FiltersConfig struct {
	Statuses         []string `mapstructure:"statuses"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	ExcludeFile      string   `mapstructure:"exclude-file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "intern-matcher recommends internships that fit a candidate profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is intern-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringSlice("catalog", nil, "catalog files (yaml or json). The built-in catalog is used when unset")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalog.files", rootCmd.PersistentFlags().Lookup("catalog"))

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("session.delay", session.DefaultDelay)
	viper.SetDefault("session.refresh-delay", session.DefaultRefreshDelay)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every command works without a config file, but an explicit or broken one must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
