package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/catalog"
	"github.com/spigell/intern-matcher/internal/logger"
	"github.com/spigell/intern-matcher/internal/matching"
	"github.com/spigell/intern-matcher/internal/session"
	"github.com/spigell/intern-matcher/internal/utils"
)

const (
	PromptRefresh          = "Refresh recommendations"
	PromptReportByCompany  = "Report by companies"
	PromptListingsToFile   = "Dump recommendations to file"
	PromptDismissToExclude = "Dismiss all recommendations to exclude file"
	PromptExit             = "Exit"

	descriptionLogLimit = 80
)

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the catalog against the profile and browse the recommendations",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	addProfileFlags(recommendCmd)
	recommendCmd.Flags().BoolP("non-interactive", "y", false, "print recommendations and exit without prompting")
	recommendCmd.Flags().StringP("exclude-file", "e", "", "file with dismissed listings to exclude. Default is unset.")

	viper.BindPFlag("filters.exclude-file", recommendCmd.Flags().Lookup("exclude-file"))
}

func recommend(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config, err := bootstrap()
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("starting the intern-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	listings, err := loadCatalog(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	listings, err = filterCatalog(ctx, config, logger, listings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	profile, err := buildProfile(cmd, config, logger)
	if err != nil {
		logger.Fatal("reading profile", zap.Error(err))
	}

	sess := session.New(listings.All(), config.Session, logger)

	logger.Info("analyzing your profile", zap.Duration("delay", config.Session.Delay))

	result, err := sess.Submit(ctx, profile)
	if err != nil {
		logger.Fatal("computing recommendations", zap.Error(err))
	}

	report(logger, result)

	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	if nonInteractive || result.Len() == 0 {
		return
	}

	for {
		if err := browse(ctx, logger, sess); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// report prints the ranked result, or the empty state with a hint.
func report(log *zap.Logger, result matching.RankedResult) {
	if result.Len() == 0 {
		log.Info("no recommendations found",
			zap.String("hint", "update the profile with more skills or sectors"),
		)
		return
	}

	log.Info("recommendations ready", zap.Int("count", result.Len()))
	for idx, entry := range result.Entries {
		log.Info(fmt.Sprintf("#%d %s", idx+1, entry.Listing.Title),
			append(logger.ListingFields(entry.Listing),
				zap.String("tier", string(entry.Tier())),
				zap.String("location", entry.Listing.Location),
				zap.String("stipend", entry.Listing.Stipend),
				zap.String("description", utils.TruncateForLog(entry.Listing.Description, descriptionLogLimit)),
			)...,
		)
	}
}

func browse(ctx context.Context, log *zap.Logger, sess *session.Session) error {
	result, err := sess.Result()
	if err != nil {
		return err
	}

	items := make([]string, 0, result.Len()+5)
	for _, entry := range result.Entries {
		items = append(items, entryLabel(entry))
	}
	items = append(items, PromptRefresh, PromptReportByCompany, PromptListingsToFile)

	excludeFile := viper.GetString("filters.exclude-file")
	if excludeFile != "" {
		items = append(items, PromptDismissToExclude)
	}
	items = append(items, PromptExit)

	selectPrompt := promptui.Select{
		Label: "Choose a recommendation and press ENTER",
		Items: items,
		Size:  len(items),
	}

	idx, selected, err := selectPrompt.Run()
	if err != nil {
		return err
	}

	return handleAction(ctx, log, sess, result, idx, selected, excludeFile)
}

// handleAction runs the chosen prompt item. Entries come first in the prompt, so an index
// inside the result selects a listing and anything else is matched by its label.
func handleAction(ctx context.Context, log *zap.Logger, sess *session.Session, result matching.RankedResult, idx int, action, excludeFile string) error {
	if idx >= 0 && idx < result.Len() {
		entry, explanation, err := sess.Explain(result.Entries[idx].Listing.ID)
		if err != nil {
			return err
		}
		explain(log, entry.Listing, entry.MatchScore, explanation)
		return nil
	}

	listings := catalog.New()
	for _, entry := range result.Entries {
		listings.Items = append(listings.Items, entry.Listing)
	}

	switch action {
	case PromptExit:
		log.Info("exiting", zap.String("reason", "requested from prompt"))
		return errExit
	case PromptRefresh:
		log.Info("refreshing recommendations")
		refreshed, err := sess.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		report(log, refreshed)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(listings.ReportByCompany(), "", "  ")
		log.Info(string(pretty), zap.Int("listings count", listings.Len()))
		return nil
	case PromptListingsToFile:
		filename, err := listings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptDismissToExclude:
		excluded, err := catalog.ReadExcludedFile(excludeFile)
		if err != nil {
			return err
		}
		excluded.Append(listings.ToExcluded())
		if err := excluded.WriteFile(excludeFile); err != nil {
			return err
		}
		log.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", listings.Len()))
		return errExit
	default:
		return fmt.Errorf("%w: unknown prompt item %q", catalog.ErrListingNotFound, action)
	}
}

func entryLabel(entry matching.Entry) string {
	return fmt.Sprintf("%s %s / %s / %d%% match", entry.Listing.ID, entry.Listing.Title, entry.Listing.Company, entry.MatchScore)
}

// explain prints the match breakdown of a single listing.
func explain(log *zap.Logger, listing matching.Listing, score int, e matching.MatchExplanation) {
	log.Info(listing.Title,
		append(logger.ListingFields(listing),
			zap.Int("match", score),
			zap.String("tier", string(matching.TierFor(score))),
			zap.Int("skills_alignment_pct", e.SkillAlignmentPct),
			zap.String("sector_match", string(e.SectorMatch)),
			zap.String("competition_level", string(e.CompetitionLevel)),
			zap.Int("applications", listing.Applications),
			zap.Strings("skills_you_have", e.MatchingSkills),
			zap.Strings("skills_to_develop", e.MissingSkills),
			zap.String("deadline", listing.Deadline),
			zap.String("description", utils.TruncateForLog(listing.Description, descriptionLogLimit)),
		)...,
	)
}
