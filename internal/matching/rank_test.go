package matching

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceListings() []Listing {
	return []Listing{
		{ID: "1", Title: "Software Development Intern", Company: "TechStart India", Skills: []string{"Programming", "Data Analysis"}, Sector: "Technology", BaseScore: 95, Applications: 45},
		{ID: "2", Title: "Digital Marketing Intern", Company: "GrowthLab", Skills: []string{"Digital Marketing", "Communication"}, Sector: "Marketing", BaseScore: 87, Applications: 32},
		{ID: "3", Title: "Data Science Intern", Company: "DataPro Solutions", Skills: []string{"Data Analysis", "Programming"}, Sector: "Technology", BaseScore: 82, Applications: 67},
		{ID: "4", Title: "Content Writing Intern", Company: "Creative Minds", Skills: []string{"Content Writing", "Communication"}, Sector: "Marketing", BaseScore: 78, Applications: 23},
		{ID: "5", Title: "Financial Analyst Intern", Company: "FinanceFirst", Skills: []string{"Finance", "Data Analysis"}, Sector: "Finance", BaseScore: 75, Applications: 41},
	}
}

func TestRank_TechnologyProfile(t *testing.T) {
	profile := NewProfile([]string{"Programming", "Data Analysis"}, []string{"Technology"})

	result := Rank(profile, referenceListings())

	require.GreaterOrEqual(t, result.Len(), 2)
	assert.Equal(t, "1", result.Entries[0].Listing.ID)
	assert.Equal(t, 95, result.Entries[0].MatchScore)
	assert.Equal(t, "3", result.Entries[1].Listing.ID)
	assert.Equal(t, 82, result.Entries[1].MatchScore)
	// Listing 5 shares "Data Analysis".
	assert.Equal(t, []string{"1", "3", "5"}, result.IDs())
}

func TestRank_FinanceProfile(t *testing.T) {
	profile := NewProfile([]string{"Finance"}, []string{"Finance"})

	result := Rank(profile, referenceListings())

	entry, ok := result.Find("5")
	require.True(t, ok)
	assert.Equal(t, 75, entry.MatchScore)
	assert.Equal(t, []string{"5"}, result.IDs())
}

func TestRank_EmptyInputs(t *testing.T) {
	t.Run("empty profile", func(t *testing.T) {
		result := Rank(Profile{Location: "Delhi"}, referenceListings())
		assert.Equal(t, 0, result.Len())
		assert.NotNil(t, result.Entries)
	})

	t.Run("empty catalog", func(t *testing.T) {
		result := Rank(NewProfile([]string{"Programming"}, nil), nil)
		assert.Equal(t, 0, result.Len())
	})

	t.Run("nothing eligible", func(t *testing.T) {
		result := Rank(NewProfile([]string{"Leadership"}, []string{"NGO"}), referenceListings())
		assert.Equal(t, 0, result.Len())
	})
}

func TestRank_TruncatesToHighestScores(t *testing.T) {
	catalog := []Listing{
		{ID: "a", Sector: "Technology", BaseScore: 40},
		{ID: "b", Sector: "Technology", BaseScore: 90},
		{ID: "c", Sector: "Technology", BaseScore: 10},
		{ID: "d", Sector: "Technology", BaseScore: 70},
		{ID: "e", Sector: "Technology", BaseScore: 60},
		{ID: "f", Sector: "Technology", BaseScore: 80},
		{ID: "g", Sector: "Technology", BaseScore: 50},
		{ID: "x", Sector: "Healthcare", BaseScore: 100},
	}

	result := Rank(NewProfile(nil, []string{"Technology"}), catalog)

	require.Len(t, result.Entries, MaxResults)
	assert.Equal(t, []string{"b", "f", "d", "e", "g"}, result.IDs())
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	catalog := []Listing{
		{ID: "first", Skills: []string{"Design"}, BaseScore: 80},
		{ID: "second", Skills: []string{"Design"}, BaseScore: 85},
		{ID: "third", Skills: []string{"Design"}, BaseScore: 80},
		{ID: "fourth", Skills: []string{"Design"}, BaseScore: 80},
	}

	result := Rank(NewProfile([]string{"Design"}, nil), catalog)

	assert.Equal(t, []string{"second", "first", "third", "fourth"}, result.IDs())
}

func TestRank_MatchingIsCaseSensitive(t *testing.T) {
	result := Rank(NewProfile([]string{"programming"}, []string{"technology"}), referenceListings())
	assert.Equal(t, 0, result.Len())
}

func TestRank_AcceptsOutOfRangeScores(t *testing.T) {
	catalog := []Listing{
		{ID: "neg", Sector: "Finance", BaseScore: -5},
		{ID: "big", Sector: "Finance", BaseScore: 150},
	}

	result := Rank(NewProfile(nil, []string{"Finance"}), catalog)
	assert.Equal(t, []string{"big", "neg"}, result.IDs())
}

func TestRank_DoesNotMutateCatalog(t *testing.T) {
	catalog := referenceListings()
	before := referenceListings()

	result := Rank(NewProfile([]string{"Programming"}, []string{"Technology"}), catalog)
	require.NotZero(t, result.Len())
	result.Entries[0].Listing.Skills[0] = "changed"

	assert.Equal(t, before, catalog)
}

func TestRank_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	skills := []string{"Programming", "Data Analysis", "Design", "Finance", "Sales", "Research"}
	sectors := []string{"Technology", "Finance", "Marketing", "NGO"}

	pick := func(values []string) []string {
		var out []string
		for _, v := range values {
			if rnd.Intn(3) == 0 {
				out = append(out, v)
			}
		}
		return out
	}

	for i := 0; i < 200; i++ {
		catalog := make([]Listing, rnd.Intn(12))
		for j := range catalog {
			catalog[j] = Listing{
				ID:           fmt.Sprintf("l%d", j),
				Skills:       pick(skills),
				Sector:       sectors[rnd.Intn(len(sectors))],
				BaseScore:    rnd.Intn(101),
				Applications: rnd.Intn(100),
			}
		}
		profile := NewProfile(pick(skills), pick(sectors))

		first := Rank(profile, catalog)
		second := Rank(profile, catalog)
		require.Equal(t, first, second, "rank must be idempotent")

		require.LessOrEqual(t, first.Len(), MaxResults)
		if profile.IsEmpty() {
			require.Zero(t, first.Len())
		}

		seen := map[string]bool{}
		for k, entry := range first.Entries {
			require.True(t, Eligible(profile, entry.Listing), "listing %s is not eligible", entry.Listing.ID)
			require.False(t, seen[entry.Listing.ID], "duplicate listing %s", entry.Listing.ID)
			seen[entry.Listing.ID] = true
			if k > 0 {
				require.GreaterOrEqual(t, first.Entries[k-1].MatchScore, entry.MatchScore)
			}
		}
	}
}

func TestRankedResult_FindMissing(t *testing.T) {
	result := Rank(NewProfile([]string{"Finance"}, nil), referenceListings())

	_, ok := result.Find("42")
	assert.False(t, ok)
}

func TestNewProfile_Deduplicates(t *testing.T) {
	profile := NewProfile([]string{"Design", "Design", "design"}, []string{"NGO", "NGO"})

	assert.Equal(t, []string{"Design", "design"}, profile.Skills)
	assert.Equal(t, []string{"NGO"}, profile.Sectors)

	normalized := Profile{Name: "Asha", Skills: []string{"Sales", "Sales"}}.Normalize()
	assert.Equal(t, "Asha", normalized.Name)
	assert.Equal(t, []string{"Sales"}, normalized.Skills)
	assert.Nil(t, normalized.Sectors)
}
