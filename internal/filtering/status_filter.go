package filtering

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/catalog"
	"github.com/spigell/intern-matcher/internal/matching"
)

type statusFilter struct {
	toggle
	statuses []matching.Status
}

// NewStatus creates a filter that keeps only listings with the configured statuses.
func NewStatus() Filter {
	return &statusFilter{}
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Validate(cfg *Config) error {
	f.statuses = nil
	if cfg == nil {
		return nil
	}

	for _, raw := range cfg.Statuses {
		status := matching.Status(strings.ToLower(strings.TrimSpace(raw)))
		if !slices.Contains(matching.Statuses, status) {
			return fmt.Errorf("unknown listing status %q", raw)
		}
		f.statuses = append(f.statuses, status)
	}
	return nil
}

func (f *statusFilter) Apply(_ context.Context, deps Deps, l *catalog.Listings) (*catalog.Listings, Step, error) {
	initial := l.Len()
	excluded := l.KeepStatuses(f.statuses)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding listings by status",
			zap.Strings("excluded_listings", excluded),
			zap.Int("listings_left", l.Len()),
		)
	}

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}

func (f *statusFilter) Status() Status {
	details := map[string]string{}
	if len(f.statuses) > 0 {
		names := make([]string, 0, len(f.statuses))
		for _, s := range f.statuses {
			names = append(names, string(s))
		}
		details["statuses"] = strings.Join(names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
