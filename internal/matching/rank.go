package matching

import (
	"cmp"
	"slices"
)

// MaxResults is the maximum number of entries returned by Rank.
const MaxResults = 5

// Entry is a ranked listing together with its match score.
type Entry struct {
	Listing    Listing `json:"listing"`
	MatchScore int     `json:"match_score"`
}

// Tier returns the presentation tier of the entry score.
func (e Entry) Tier() Tier {
	return TierFor(e.MatchScore)
}

// RankedResult is the ordered output of Rank.
type RankedResult struct {
	Entries []Entry `json:"entries"`
}

// Len returns the number of ranked entries.
func (r RankedResult) Len() int {
	return len(r.Entries)
}

// Find looks up an entry by listing id.
func (r RankedResult) Find(id string) (Entry, bool) {
	for _, entry := range r.Entries {
		if entry.Listing.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

// IDs returns listing ids in rank order.
func (r RankedResult) IDs() []string {
	ids := make([]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		ids = append(ids, entry.Listing.ID)
	}
	return ids
}

// Rank selects the listings eligible for the profile and returns at most MaxResults of
// them ordered by score. A listing is eligible when it shares at least one skill with the
// profile or its sector is one of the profile sectors. Ties keep catalog order.
func Rank(profile Profile, catalog []Listing) RankedResult {
	if profile.IsEmpty() || len(catalog) == 0 {
		return RankedResult{Entries: []Entry{}}
	}

	skills := newSet(profile.Skills)
	sectors := newSet(profile.Sectors)

	entries := make([]Entry, 0, len(catalog))
	for _, listing := range catalog {
		if !eligible(listing, skills, sectors) {
			continue
		}

		listing.Skills = slices.Clone(listing.Skills)
		entries = append(entries, Entry{
			Listing:    listing,
			MatchScore: score(listing),
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})

	if len(entries) > MaxResults {
		entries = entries[:MaxResults]
	}

	return RankedResult{Entries: entries}
}

// Eligible reports whether the listing passes the Rank eligibility filter for profile.
func Eligible(profile Profile, listing Listing) bool {
	return eligible(listing, newSet(profile.Skills), newSet(profile.Sectors))
}

func eligible(listing Listing, skills, sectors set) bool {
	if sectors.has(listing.Sector) {
		return true
	}
	for _, skill := range listing.Skills {
		if skills.has(skill) {
			return true
		}
	}
	return false
}

// score is the listing baseline; the profile only decides eligibility.
func score(listing Listing) int {
	return listing.BaseScore
}
