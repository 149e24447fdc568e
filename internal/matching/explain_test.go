package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplain_PartialSkills(t *testing.T) {
	listing := Listing{ID: "1", Skills: []string{"Programming", "Data Analysis"}, Sector: "Technology", Applications: 45}
	profile := NewProfile([]string{"Programming"}, []string{"Technology"})

	got := Explain(profile, listing)

	assert.Equal(t, 50, got.SkillAlignmentPct)
	assert.Equal(t, []string{"Programming"}, got.MatchingSkills)
	assert.Equal(t, []string{"Data Analysis"}, got.MissingSkills)
	assert.Equal(t, SectorPerfect, got.SectorMatch)
	assert.Equal(t, CompetitionLow, got.CompetitionLevel)
}

func TestExplain_SectorMatch(t *testing.T) {
	listing := Listing{Skills: []string{"Finance"}, Sector: "Finance"}

	assert.Equal(t, SectorGood, Explain(NewProfile([]string{"Finance"}, []string{"Technology"}), listing).SectorMatch)
	assert.Equal(t, SectorPerfect, Explain(NewProfile(nil, []string{"Finance"}), listing).SectorMatch)
}

func TestExplain_CompetitionBoundary(t *testing.T) {
	tests := []struct {
		applications int
		want         CompetitionLevel
	}{
		{applications: 0, want: CompetitionLow},
		{applications: 49, want: CompetitionLow},
		{applications: 50, want: CompetitionMedium},
		{applications: 67, want: CompetitionMedium},
	}

	for _, tt := range tests {
		got := Explain(Profile{}, Listing{Applications: tt.applications})
		assert.Equal(t, tt.want, got.CompetitionLevel, "applications=%d", tt.applications)
	}
}

func TestExplain_NoListingSkills(t *testing.T) {
	got := Explain(NewProfile([]string{"Programming"}, nil), Listing{Sector: "NGO"})

	assert.Equal(t, 0, got.SkillAlignmentPct)
	assert.Empty(t, got.MatchingSkills)
	assert.Empty(t, got.MissingSkills)
}

func TestExplain_Rounding(t *testing.T) {
	listing := Listing{Skills: []string{"A", "B", "C"}}

	assert.Equal(t, 33, Explain(NewProfile([]string{"A"}, nil), listing).SkillAlignmentPct)
	assert.Equal(t, 67, Explain(NewProfile([]string{"A", "C"}, nil), listing).SkillAlignmentPct)
	assert.Equal(t, 100, Explain(NewProfile([]string{"C", "B", "A"}, nil), listing).SkillAlignmentPct)
}

func TestExplain_PartitionPreservesOrder(t *testing.T) {
	listing := Listing{Skills: []string{"Research", "Design", "Sales", "Finance", "Leadership"}}
	profile := NewProfile([]string{"Leadership", "Design", "Finance"}, nil)

	got := Explain(profile, listing)

	assert.Equal(t, []string{"Design", "Finance", "Leadership"}, got.MatchingSkills)
	assert.Equal(t, []string{"Research", "Sales"}, got.MissingSkills)
	assert.ElementsMatch(t, listing.Skills, append(append([]string{}, got.MatchingSkills...), got.MissingSkills...))
	assert.GreaterOrEqual(t, got.SkillAlignmentPct, 0)
	assert.LessOrEqual(t, got.SkillAlignmentPct, 100)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierExcellent, TierFor(95))
	assert.Equal(t, TierExcellent, TierFor(90))
	assert.Equal(t, TierGreat, TierFor(89))
	assert.Equal(t, TierGreat, TierFor(80))
	assert.Equal(t, TierGood, TierFor(70))
	assert.Equal(t, TierFair, TierFor(69))
	assert.Equal(t, TierFair, Entry{MatchScore: -1}.Tier())
}
