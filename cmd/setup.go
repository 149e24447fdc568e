package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/catalog"
	"github.com/spigell/intern-matcher/internal/filtering"
	"github.com/spigell/intern-matcher/internal/logger"
	"github.com/spigell/intern-matcher/internal/matching"
	"github.com/spigell/intern-matcher/internal/profile"
)

// bootstrap builds the logger and reads the configuration shared by all commands.
func bootstrap() (*zap.Logger, *Config, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return log, nil, fmt.Errorf("getting a config: %w", err)
	}

	return log, config, nil
}

// loadCatalog returns the configured catalog files or the built-in catalog.
func loadCatalog(ctx context.Context, config *Config, log *zap.Logger) (*catalog.Listings, error) {
	if len(config.Catalog.Files) == 0 {
		listings := catalog.Reference()
		log.Debug("using built-in catalog", zap.Int("count", listings.Len()))
		return listings, nil
	}

	listings, err := catalog.LoadFiles(ctx, config.Catalog.Files)
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded", zap.Strings("files", config.Catalog.Files), zap.Int("count", listings.Len()))
	return listings, nil
}

// filterCatalog runs the configured pre-filters over the catalog.
func filterCatalog(ctx context.Context, config *Config, log *zap.Logger, listings *catalog.Listings) (*catalog.Listings, error) {
	cfg := &filtering.Config{
		Statuses:    config.Filters.Statuses,
		Companies:   config.Filters.ExcludeCompanies,
		ExcludeFile: config.Filters.ExcludeFile,
	}

	steps := filtering.Default()
	filtered, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: log}, steps, listings)
	if err != nil {
		return nil, err
	}

	logFilterStatuses(log, steps)
	return filtered, nil
}

// logFilterStatuses reports every step after Run has validated it, so configured details are known.
func logFilterStatuses(log *zap.Logger, steps []filtering.Filter) {
	for _, status := range filtering.Describe(steps) {
		log.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.Any("details", status.Details),
		)
	}
}

// buildProfile decodes the profile section and applies --skills/--sectors overrides.
// Wizard validation problems are only reported, the engine accepts any profile.
func buildProfile(cmd *cobra.Command, config *Config, log *zap.Logger) (matching.Profile, error) {
	p, err := profile.Decode(config.Profile)
	if err != nil {
		return p, err
	}

	if flag := cmd.Flags().Lookup("skills"); flag != nil && flag.Changed {
		skills, _ := cmd.Flags().GetStringSlice("skills")
		p.Skills = skills
	}
	if flag := cmd.Flags().Lookup("sectors"); flag != nil && flag.Changed {
		sectors, _ := cmd.Flags().GetStringSlice("sectors")
		p.Sectors = sectors
	}
	p = p.Normalize()

	if err := profile.Validate(p); err != nil {
		log.Warn("profile is incomplete", zap.Error(err))
	}

	return p, nil
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("skills", nil, "profile skills, overrides profile.skills from the config")
	cmd.Flags().StringSlice("sectors", nil, "profile sectors, overrides profile.sectors from the config")
}
