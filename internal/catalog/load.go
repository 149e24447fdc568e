package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/spigell/intern-matcher/internal/matching"
)

var validate = validator.New()

// ValidationError lists every invalid listing found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

// Validate checks required fields and value ranges of every listing and that ids are
// unique. All problems are reported at once.
func Validate(l *Listings) error {
	var problems []string
	seen := make(map[string]int, l.Len())

	for idx, listing := range l.Items {
		label := listing.ID
		if label == "" {
			label = fmt.Sprintf("#%d", idx)
		}

		if err := validate.Struct(listing); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return fmt.Errorf("validating listing %s: %w", label, err)
			}
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Sprintf("listing %s: field %s failed %q", label, fe.Field(), fe.Tag()))
			}
		}

		if listing.ID == "" {
			continue
		}
		if first, ok := seen[listing.ID]; ok {
			problems = append(problems, fmt.Sprintf("listing %s: duplicate id (first at #%d)", label, first))
			continue
		}
		seen[listing.ID] = idx
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// LoadFile reads and validates a catalog document. YAML is used for .yaml and .yml
// files, JSON for everything else.
func LoadFile(path string) (*Listings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	listings, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	if err := Validate(listings); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return listings, nil
}

// LoadFiles reads the given catalog files concurrently and merges them in argument order.
// Ids must be unique across all files.
func LoadFiles(ctx context.Context, paths []string) (*Listings, error) {
	parts := make([]*Listings, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			listings, err := LoadFile(path)
			if err != nil {
				return err
			}
			parts[i] = listings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := New()
	for _, part := range parts {
		merged.Items = append(merged.Items, part.Items...)
	}

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

func decode(path string, data []byte) (*Listings, error) {
	var listings Listings

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&listings); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&listings); err != nil {
			return nil, err
		}
	}

	return &listings, nil
}

// Reference returns the built-in catalog used when no catalog files are configured.
func Reference() *Listings {
	return New(
		matching.Listing{
			ID:           "1",
			Title:        "Software Development Intern",
			Company:      "TechStart India",
			Location:     "Bangalore",
			Duration:     "3 months",
			Stipend:      "₹15,000/month",
			Description:  "Work on cutting-edge web applications with our engineering team.",
			Deadline:     "2024-10-15",
			Status:       matching.StatusActive,
			Skills:       []string{"Programming", "Data Analysis"},
			Sector:       "Technology",
			BaseScore:    95,
			Applications: 45,
		},
		matching.Listing{
			ID:           "2",
			Title:        "Digital Marketing Intern",
			Company:      "GrowthLab",
			Location:     "Delhi",
			Duration:     "2 months",
			Stipend:      "₹12,000/month",
			Description:  "Create and execute digital marketing campaigns for startups.",
			Deadline:     "2024-10-20",
			Status:       matching.StatusActive,
			Skills:       []string{"Digital Marketing", "Communication"},
			Sector:       "Marketing",
			BaseScore:    87,
			Applications: 32,
		},
		matching.Listing{
			ID:           "3",
			Title:        "Data Science Intern",
			Company:      "DataPro Solutions",
			Location:     "Mumbai",
			Duration:     "4 months",
			Stipend:      "₹18,000/month",
			Description:  "Analyze large datasets and build predictive models.",
			Deadline:     "2024-10-25",
			Status:       matching.StatusPaused,
			Skills:       []string{"Data Analysis", "Programming"},
			Sector:       "Technology",
			BaseScore:    82,
			Applications: 67,
		},
		matching.Listing{
			ID:           "4",
			Title:        "Content Writing Intern",
			Company:      "Creative Minds",
			Location:     "Remote",
			Duration:     "2 months",
			Stipend:      "₹10,000/month",
			Description:  "Create engaging content for various digital platforms.",
			Deadline:     "2024-11-01",
			Status:       matching.StatusDraft,
			Skills:       []string{"Content Writing", "Communication"},
			Sector:       "Marketing",
			BaseScore:    78,
			Applications: 23,
		},
		matching.Listing{
			ID:           "5",
			Title:        "Financial Analyst Intern",
			Company:      "FinanceFirst",
			Location:     "Chennai",
			Duration:     "3 months",
			Stipend:      "₹16,000/month",
			Description:  "Support financial planning and analysis for growing businesses.",
			Deadline:     "2024-10-30",
			Status:       matching.StatusExpired,
			Skills:       []string{"Finance", "Data Analysis"},
			Sector:       "Finance",
			BaseScore:    75,
			Applications: 41,
		},
	)
}
