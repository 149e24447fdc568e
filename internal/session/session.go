// Package session runs the matching engine behind the asynchronous boundary a user
// interface expects: an artificial processing delay, at most one computation in flight per
// session, and newer requests superseding pending ones.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/catalog"
	"github.com/spigell/intern-matcher/internal/logger"
	"github.com/spigell/intern-matcher/internal/matching"
	"github.com/spigell/intern-matcher/internal/utils"
)

const (
	// DefaultDelay is applied before computing recommendations for a submitted profile.
	DefaultDelay = 2 * time.Second
	// DefaultRefreshDelay is applied before recomputing on refresh.
	DefaultRefreshDelay = 1500 * time.Millisecond
)

var (
	// ErrSuperseded is returned to a caller whose computation was replaced by a newer one.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNotReady is returned when no completed recommendations are available.
	ErrNotReady = errors.New("recommendations are not ready")
	// ErrNoProfile is returned by Refresh before any profile was submitted.
	ErrNoProfile = errors.New("no profile submitted")
)

// State of the recommendations view.
type State int

const (
	Idle State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config controls the artificial delays. Negative values disable the delay.
type Config struct {
	Delay        time.Duration `mapstructure:"delay"`
	RefreshDelay time.Duration `mapstructure:"refresh-delay"`
}

func (c Config) withDefaults() Config {
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.RefreshDelay == 0 {
		c.RefreshDelay = DefaultRefreshDelay
	}
	return c
}

// Session holds the recommendations of one user.
type Session struct {
	id      string
	catalog []matching.Listing
	cfg     Config
	logger  *zap.Logger

	mu            sync.Mutex
	state         State
	profile       matching.Profile
	hasProfile    bool
	result        matching.RankedResult
	resultProfile matching.Profile
	gen           uint64
	cancel        context.CancelFunc
}

// New creates a session over a fixed catalog.
func New(listings []matching.Listing, cfg Config, log *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		catalog: listings,
		cfg:     cfg.withDefaults(),
		logger:  logger.WithFields(log, zap.String(logger.FieldSessionID, id)),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit replaces the profile and computes recommendations for it.
func (s *Session) Submit(ctx context.Context, profile matching.Profile) (matching.RankedResult, error) {
	return s.compute(ctx, profile.Normalize(), s.cfg.Delay)
}

// Refresh recomputes recommendations for the last submitted profile.
func (s *Session) Refresh(ctx context.Context) (matching.RankedResult, error) {
	s.mu.Lock()
	profile, ok := s.profile, s.hasProfile
	s.mu.Unlock()

	if !ok {
		return matching.RankedResult{}, ErrNoProfile
	}
	return s.compute(ctx, profile, s.cfg.RefreshDelay)
}

// Result returns the last completed recommendations.
func (s *Session) Result() (matching.RankedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready {
		return matching.RankedResult{}, ErrNotReady
	}
	return s.result, nil
}

// Explain returns the entry with the given listing id from the last result together with
// its explanation.
func (s *Session) Explain(id string) (matching.Entry, matching.MatchExplanation, error) {
	s.mu.Lock()
	state, result, profile := s.state, s.result, s.resultProfile
	s.mu.Unlock()

	if state != Ready {
		return matching.Entry{}, matching.MatchExplanation{}, ErrNotReady
	}

	entry, ok := result.Find(id)
	if !ok {
		return matching.Entry{}, matching.MatchExplanation{}, fmt.Errorf("%w: %s", catalog.ErrListingNotFound, id)
	}
	return entry, matching.Explain(profile, entry.Listing), nil
}

func (s *Session) compute(ctx context.Context, profile matching.Profile, delay time.Duration) (matching.RankedResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.state = Loading
	s.profile = profile
	s.hasProfile = true
	s.mu.Unlock()

	s.logger.Debug("computing recommendations", append(logger.ProfileFields(profile), zap.Duration("delay", delay))...)

	if err := utils.WaitFor(ctx, delay); err != nil {
		return matching.RankedResult{}, s.abandon(gen, err)
	}

	result := matching.Rank(profile, s.catalog)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return matching.RankedResult{}, ErrSuperseded
	}

	s.result = result
	s.resultProfile = profile
	s.state = Ready
	s.cancel = nil

	s.logger.Info("recommendations ready", zap.Int("count", result.Len()), zap.Strings("listings", result.IDs()))

	return result, nil
}

// abandon handles a computation that stopped before completing. A superseded one leaves
// the session alone, a cancelled one restores the previous view.
func (s *Session) abandon(gen uint64, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return ErrSuperseded
	}

	s.cancel = nil
	s.state = Idle
	s.profile, s.hasProfile = matching.Profile{}, false
	if s.result.Entries != nil {
		s.state = Ready
		s.profile, s.hasProfile = s.resultProfile, true
	}

	s.logger.Debug("recommendations abandoned", zap.Error(cause))
	return cause
}
