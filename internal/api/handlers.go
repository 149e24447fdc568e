package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/catalog"
	"github.com/spigell/intern-matcher/internal/matching"
	"github.com/spigell/intern-matcher/internal/profile"
	"github.com/spigell/intern-matcher/internal/session"
)

const maxBodyBytes = 1 << 20

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type entryView struct {
	Listing    matching.Listing `json:"listing"`
	MatchScore int              `json:"match_score"`
	Tier       matching.Tier    `json:"tier"`
}

type recommendationsView struct {
	Count   int         `json:"count"`
	Entries []entryView `json:"entries"`
}

type explanationView struct {
	ListingID string `json:"listing_id"`
	Eligible  bool   `json:"eligible"`
	matching.MatchExplanation
}

type sessionView struct {
	ID              string               `json:"id"`
	State           string               `json:"state"`
	Recommendations *recommendationsView `json:"recommendations,omitempty"`
}

func newRecommendationsView(result matching.RankedResult) *recommendationsView {
	view := &recommendationsView{Count: result.Len(), Entries: make([]entryView, 0, result.Len())}
	for _, entry := range result.Entries {
		view.Entries = append(view.Entries, entryView{
			Listing:    entry.Listing,
			MatchScore: entry.MatchScore,
			Tier:       entry.Tier(),
		})
	}
	return view
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Error: &apiError{Code: code, Message: message, Details: details},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode error response", zap.Error(err))
	}
}

// decodeProfile reads a profile from the request body. With ?strict=true the profile must
// also pass the wizard validation.
func (s *Server) decodeProfile(w http.ResponseWriter, r *http.Request) (matching.Profile, bool) {
	var p matching.Profile

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_body", "profile must be a JSON object: "+err.Error(), nil)
		return p, false
	}

	if r.URL.Query().Get("strict") == "true" {
		if err := profile.Validate(p); err != nil {
			var verr *profile.ValidationError
			if errors.As(err, &verr) {
				s.respondError(w, http.StatusUnprocessableEntity, "invalid_profile", "profile is incomplete", verr.Fields)
				return p, false
			}
			s.respondError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
			return p, false
		}
	}

	return p.Normalize(), true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{
		"skills":     profile.Skills,
		"sectors":    profile.Sectors,
		"locations":  profile.Locations,
		"education":  profile.EducationLevels,
		"experience": profile.ExperienceLevels,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}

	result := matching.Rank(p, s.catalog.All())
	s.respondJSON(w, http.StatusOK, newRecommendationsView(result))
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	found := s.catalog.Search(query.Get("q")).WithStatus(query.Get("status"))
	s.respondJSON(w, http.StatusOK, found)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.catalog.Stats())
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.catalog.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "not_found", "internship not found", nil)
		return
	}
	s.respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	listing, err := s.catalog.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "not_found", "internship not found", nil)
		return
	}

	p, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}

	s.respondJSON(w, http.StatusOK, explanationView{
		ListingID:        listing.ID,
		Eligible:         matching.Eligible(p, listing),
		MatchExplanation: matching.Explain(p, listing),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}

	sess := s.sessions.Create()
	result, err := sess.Submit(r.Context(), p)
	if err != nil {
		// the id was never sent, nobody could reach the session again
		s.sessions.Delete(sess.ID())
		s.respondSessionError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID())
	s.respondJSON(w, http.StatusCreated, sessionView{
		ID:              sess.ID(),
		State:           sess.State().String(),
		Recommendations: newRecommendationsView(result),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	view := sessionView{ID: sess.ID(), State: sess.State().String()}
	if result, err := sess.Result(); err == nil {
		view.Recommendations = newRecommendationsView(result)
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRefreshSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	result, err := sess.Refresh(r.Context())
	if err != nil {
		s.respondSessionError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, sessionView{
		ID:              sess.ID(),
		State:           sess.State().String(),
		Recommendations: newRecommendationsView(result),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "id")) {
		s.respondError(w, http.StatusNotFound, "not_found", "session not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionExplain(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	entry, explanation, err := sess.Explain(chi.URLParam(r, "listingID"))
	if err != nil {
		s.respondSessionError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"entry":       entryView{Listing: entry.Listing, MatchScore: entry.MatchScore, Tier: entry.Tier()},
		"explanation": explanation,
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "not_found", "session not found", nil)
	}
	return sess, ok
}

func (s *Server) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrListingNotFound):
		s.respondError(w, http.StatusNotFound, "not_found", "internship not found", nil)
	case errors.Is(err, session.ErrSuperseded):
		s.respondError(w, http.StatusConflict, "superseded", err.Error(), nil)
	case errors.Is(err, session.ErrNotReady), errors.Is(err, session.ErrNoProfile):
		s.respondError(w, http.StatusConflict, "not_ready", err.Error(), nil)
	default:
		s.logger.Warn("session request failed", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
	}
}
