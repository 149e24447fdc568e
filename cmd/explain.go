package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/matching"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain how a single listing matches the profile",
	Run: func(cmd *cobra.Command, _ []string) {
		runExplain(cmd)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)

	addProfileFlags(explainCmd)
	explainCmd.Flags().String("id", "", "listing id")
	explainCmd.MarkFlagRequired("id")
}

func runExplain(cmd *cobra.Command) {
	ctx := cmd.Context()

	logger, config, err := bootstrap()
	if err != nil {
		log.Fatal(err)
	}

	listings, err := loadCatalog(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	id, _ := cmd.Flags().GetString("id")
	listing, err := listings.FindByID(id)
	if err != nil {
		logger.Fatal("internship not found", zap.String("id", id), zap.Error(err))
	}

	profile, err := buildProfile(cmd, config, logger)
	if err != nil {
		logger.Fatal("reading profile", zap.Error(err))
	}

	if !matching.Eligible(profile, listing) {
		logger.Info("listing would not be recommended for this profile",
			zap.String("hint", "it shares no skill or sector with the profile"),
		)
	}

	explain(logger, listing, listing.BaseScore, matching.Explain(profile, listing))
}
