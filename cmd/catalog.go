package cmd

import (
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List or summarize the internship catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		listCatalog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringP("query", "q", "", "search by title or company")
	catalogCmd.Flags().StringP("status", "s", "all", "one of all, active, draft, paused, expired")
	catalogCmd.Flags().Bool("stats", false, "print catalog statistics instead of listings")
}

func listCatalog(cmd *cobra.Command) {
	logger, config, err := bootstrap()
	if err != nil {
		log.Fatal(err)
	}

	listings, err := loadCatalog(cmd.Context(), config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	var out any
	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		out = listings.Stats()
	} else {
		query, _ := cmd.Flags().GetString("query")
		status, _ := cmd.Flags().GetString("status")
		out = listings.Search(query).WithStatus(status)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal("writing catalog", zap.Error(err))
	}
}
