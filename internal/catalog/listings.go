// Package catalog supplies the internship listings the matching engine works on. It loads
// and validates catalog documents and offers collection helpers used by the CLI and the
// HTTP layer.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spigell/intern-matcher/internal/matching"
)

const (
	ListingIDField      = "ID"
	ListingCompanyField = "Company"
	ListingStatusField  = "Status"
)

// ErrListingNotFound is returned when a listing id is not present in the catalog.
var ErrListingNotFound = errors.New("listing not found")

// Listings is an ordered listing collection. Order is significant: the matching engine
// breaks score ties by it.
type Listings struct {
	Items []matching.Listing `json:"listings" yaml:"listings"`
}

// Stats summarizes a catalog for administrators.
type Stats struct {
	Total        int                     `json:"total"`
	ByStatus     map[matching.Status]int `json:"by_status"`
	Applications int                     `json:"applications"`
}

func New(items ...matching.Listing) *Listings {
	return &Listings{Items: items}
}

func (l *Listings) Len() int {
	return len(l.Items)
}

// All returns a copy of the listings slice, safe to hand to the matching engine.
func (l *Listings) All() []matching.Listing {
	return slices.Clone(l.Items)
}

func (l *Listings) FindByID(id string) (matching.Listing, error) {
	for _, listing := range l.Items {
		if listing.ID == id {
			return listing, nil
		}
	}
	return matching.Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
}

// StatusOf returns the listing status, treating an unset status as active.
func StatusOf(listing matching.Listing) matching.Status {
	if listing.Status == "" {
		return matching.StatusActive
	}
	return listing.Status
}

func stringField(listing matching.Listing, name string) string {
	switch name {
	case ListingIDField:
		return listing.ID
	case ListingCompanyField:
		return listing.Company
	case ListingStatusField:
		return string(StatusOf(listing))
	default:
		return ""
	}
}

// Exclude removes listings whose field equals any of targets and returns the removed ids.
// The order of the remaining listings is preserved.
func (l *Listings) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	var excluded []string
	kept := make([]matching.Listing, 0, len(l.Items))
	for _, listing := range l.Items {
		if slices.Contains(targets, stringField(listing, field)) {
			excluded = append(excluded, listing.ID)
			continue
		}
		kept = append(kept, listing)
	}
	l.Items = kept
	return excluded
}

// KeepStatuses removes listings whose status is not one of statuses and returns the
// removed ids. An empty statuses list keeps everything.
func (l *Listings) KeepStatuses(statuses []matching.Status) []string {
	if len(statuses) == 0 {
		return nil
	}

	var excluded []string
	kept := make([]matching.Listing, 0, len(l.Items))
	for _, listing := range l.Items {
		if !slices.Contains(statuses, StatusOf(listing)) {
			excluded = append(excluded, listing.ID)
			continue
		}
		kept = append(kept, listing)
	}
	l.Items = kept
	return excluded
}

// Search returns listings whose title or company contains query, ignoring case. An empty
// query matches everything.
func (l *Listings) Search(query string) *Listings {
	query = strings.ToLower(strings.TrimSpace(query))
	found := New()
	for _, listing := range l.Items {
		if query == "" ||
			strings.Contains(strings.ToLower(listing.Title), query) ||
			strings.Contains(strings.ToLower(listing.Company), query) {
			found.Items = append(found.Items, listing)
		}
	}
	return found
}

// WithStatus returns listings with the given status. The status "all" or an empty one
// matches everything.
func (l *Listings) WithStatus(status string) *Listings {
	status = strings.ToLower(strings.TrimSpace(status))
	found := New()
	for _, listing := range l.Items {
		if status == "" || status == "all" || string(StatusOf(listing)) == status {
			found.Items = append(found.Items, listing)
		}
	}
	return found
}

func (l *Listings) Stats() Stats {
	stats := Stats{
		Total:    l.Len(),
		ByStatus: make(map[matching.Status]int, len(matching.Statuses)),
	}
	for _, status := range matching.Statuses {
		stats.ByStatus[status] = 0
	}
	for _, listing := range l.Items {
		stats.ByStatus[StatusOf(listing)]++
		stats.Applications += listing.Applications
	}
	return stats
}

// ReportByCompany groups listings by company for the CLI report.
func (l *Listings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, listing := range l.Items {
		report[listing.Company] = append(report[listing.Company], map[string]string{
			"id":           listing.ID,
			"title":        listing.Title,
			"type":         listing.Sector,
			"location":     listing.Location,
			"stipend":      listing.Stipend,
			"duration":     listing.Duration,
			"deadline":     listing.Deadline,
			"status":       string(StatusOf(listing)),
			"applications": fmt.Sprintf("%d", listing.Applications),
		})
	}
	return report
}

func (l *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts every listing into an exclude file record.
func (l *Listings) ToExcluded() *ExcludedListings {
	now := time.Now().UTC()
	excluded := &ExcludedListings{}
	for _, listing := range l.Items {
		excluded.Items = append(excluded.Items, &ExcludedListing{
			ID:         listing.ID,
			Title:      listing.Title,
			Company:    listing.Company,
			ExcludedAt: now,
		})
	}
	return excluded
}
