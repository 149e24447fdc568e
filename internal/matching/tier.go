package matching

// Tier is a coarse label for a match score used by presentation layers.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGreat     Tier = "great"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
)

// TierFor maps a score to its tier: 90 and above is excellent, 80 great, 70 good.
func TierFor(score int) Tier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 80:
		return TierGreat
	case score >= 70:
		return TierGood
	default:
		return TierFair
	}
}
