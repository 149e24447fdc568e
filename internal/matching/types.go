// Package matching ranks internship listings against a candidate profile and explains
// every individual match.
//
// Both entry points, Rank and Explain, are pure: they never mutate their inputs, keep no
// state between calls and are safe for concurrent use.
package matching

// Profile describes a candidate. Only Skills and Sectors take part in matching, the rest
// is carried through for presentation.
type Profile struct {
	Name        string   `json:"name,omitempty" mapstructure:"name" validate:"required"`
	Education   string   `json:"education,omitempty" mapstructure:"education" validate:"required,oneof=12th diploma undergraduate postgraduate phd"`
	Skills      []string `json:"skills" mapstructure:"skills" validate:"min=1,dive,required"`
	Sectors     []string `json:"sectors" mapstructure:"sectors" validate:"min=1,dive,required"`
	Location    string   `json:"location,omitempty" mapstructure:"location" validate:"required"`
	Experience  string   `json:"experience,omitempty" mapstructure:"experience" validate:"omitempty,oneof=none some internship parttime fulltime"`
	Aspirations string   `json:"aspirations,omitempty" mapstructure:"aspirations"`
}

// NewProfile returns a profile with deduplicated skills and sectors.
func NewProfile(skills, sectors []string) Profile {
	return Profile{
		Skills:  dedup(skills),
		Sectors: dedup(sectors),
	}
}

// Normalize returns a copy of p with skills and sectors deduplicated. The first
// occurrence wins, comparison is exact and case-sensitive.
func (p Profile) Normalize() Profile {
	p.Skills = dedup(p.Skills)
	p.Sectors = dedup(p.Sectors)
	return p
}

// IsEmpty reports whether the profile has neither skills nor sectors.
func (p Profile) IsEmpty() bool {
	return len(p.Skills) == 0 && len(p.Sectors) == 0
}

// Listing is a single internship opening.
type Listing struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Title string `json:"title" yaml:"title" validate:"required"`
	// Company and the following fields are opaque for matching.
	Company     string `json:"company" yaml:"company" validate:"required"`
	Location    string `json:"location,omitempty" yaml:"location"`
	Duration    string `json:"duration,omitempty" yaml:"duration"`
	Stipend     string `json:"stipend,omitempty" yaml:"stipend"`
	Description string `json:"description,omitempty" yaml:"description"`
	Deadline    string `json:"deadline,omitempty" yaml:"deadline"`
	Status      Status `json:"status,omitempty" yaml:"status" validate:"omitempty,oneof=active draft paused expired"`

	// Skills keeps display order only.
	Skills []string `json:"skills" yaml:"skills" validate:"dive,required"`
	// Sector is exposed as "type" to match catalog documents.
	Sector       string `json:"type" yaml:"type" validate:"required"`
	BaseScore    int    `json:"match_score" yaml:"match_score" validate:"gte=0,lte=100"`
	Applications int    `json:"applications" yaml:"applications" validate:"gte=0"`
}

// Status is the publication state of a listing.
type Status string

const (
	StatusActive  Status = "active"
	StatusDraft   Status = "draft"
	StatusPaused  Status = "paused"
	StatusExpired Status = "expired"
)

// Statuses lists every known listing status in display order.
var Statuses = []Status{StatusActive, StatusDraft, StatusPaused, StatusExpired}

func dedup(values []string) []string {
	if values == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

type set map[string]struct{}

func newSet(values []string) set {
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}
