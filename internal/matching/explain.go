package matching

import "math"

// CompetitionThreshold is the number of applications from which competition is Medium.
const CompetitionThreshold = 50

// SectorMatch describes how the listing sector relates to the profile sectors.
type SectorMatch string

const (
	SectorPerfect SectorMatch = "Perfect"
	// SectorGood covers every listing whose sector is not one of the profile sectors.
	SectorGood SectorMatch = "Good"
)

// CompetitionLevel buckets a listing by the number of applications it received.
type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "Low"
	CompetitionMedium CompetitionLevel = "Medium"
)

// MatchExplanation is the breakdown shown next to a recommended listing.
type MatchExplanation struct {
	SkillAlignmentPct int              `json:"skill_alignment_pct"`
	SectorMatch       SectorMatch      `json:"sector_match"`
	CompetitionLevel  CompetitionLevel `json:"competition_level"`
	MatchingSkills    []string         `json:"matching_skills"`
	MissingSkills     []string         `json:"missing_skills"`
}

// Explain computes the match breakdown for one profile and listing. The listing does not
// have to be part of any ranked result.
func Explain(profile Profile, listing Listing) MatchExplanation {
	skills := newSet(profile.Skills)

	matching := make([]string, 0, len(listing.Skills))
	missing := make([]string, 0, len(listing.Skills))
	for _, skill := range listing.Skills {
		if skills.has(skill) {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	sector := SectorGood
	if newSet(profile.Sectors).has(listing.Sector) {
		sector = SectorPerfect
	}

	return MatchExplanation{
		SkillAlignmentPct: alignment(len(matching), len(listing.Skills)),
		SectorMatch:       sector,
		CompetitionLevel:  CompetitionFor(listing.Applications),
		MatchingSkills:    matching,
		MissingSkills:     missing,
	}
}

// CompetitionFor returns the competition level for the number of applications.
func CompetitionFor(applications int) CompetitionLevel {
	if applications < CompetitionThreshold {
		return CompetitionLow
	}
	return CompetitionMedium
}

func alignment(matched, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}
