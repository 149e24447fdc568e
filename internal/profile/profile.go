// Package profile turns user input into a matching.Profile and checks it the way the
// profile wizard does before recommendations are requested.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/intern-matcher/internal/matching"
)

// Options offered by the profile wizard.
var (
	Skills = []string{
		"Programming", "Data Analysis", "Digital Marketing", "Content Writing",
		"Design", "Finance", "Sales", "Research", "Communication", "Leadership",
	}
	Sectors = []string{
		"Technology", "Healthcare", "Finance", "Education", "Marketing",
		"Government", "NGO", "Startup", "Consulting", "Manufacturing",
	}
	Locations = []string{
		"Delhi", "Mumbai", "Bangalore", "Chennai", "Kolkata", "Hyderabad",
		"Pune", "Ahmedabad", "Jaipur", "Remote", "Willing to relocate",
	}
	EducationLevels  = []string{"12th", "diploma", "undergraduate", "postgraduate", "phd"}
	ExperienceLevels = []string{"none", "some", "internship", "parttime", "fulltime"}
)

var validate = validator.New()

// FieldError describes one failed wizard rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError is returned by Validate when the profile is incomplete.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Rule))
	}
	return "invalid profile: " + strings.Join(parts, ", ")
}

// Decode builds a profile from loosely typed input such as a config section. Skills and
// sectors may be given as lists or as comma separated strings.
func Decode(raw map[string]any) (matching.Profile, error) {
	var p matching.Profile
	if raw == nil {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return p, fmt.Errorf("creating profile decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("decoding profile: %w", err)
	}

	p.Skills = trimAll(p.Skills)
	p.Sectors = trimAll(p.Sectors)

	return p.Normalize(), nil
}

// Validate applies the wizard rules: name, education and location are required, at least
// one skill and one sector must be picked and the enumerated fields must hold known values.
// The matching engine itself accepts any profile.
func Validate(p matching.Profile) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating profile: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field: strings.ToLower(fe.Field()),
			Rule:  fe.Tag(),
		})
	}
	return verr
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
