package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/catalog"
	"github.com/spigell/intern-matcher/internal/session"
)

const techProfile = `{"name":"Asha","education":"undergraduate","skills":["Programming","Data Analysis"],"sectors":["Technology"],"location":"Pune"}`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func newTestServer() *Server {
	return NewServer(catalog.Reference(), session.Config{Delay: -1, RefreshDelay: -1}, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	rec, env := do(t, newTestServer(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestRecommend(t *testing.T) {
	rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/recommendations", techProfile)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view recommendationsView
	require.NoError(t, json.Unmarshal(env.Data, &view))

	require.Equal(t, 3, view.Count)
	assert.Equal(t, "1", view.Entries[0].Listing.ID)
	assert.Equal(t, 95, view.Entries[0].MatchScore)
	assert.Equal(t, "excellent", string(view.Entries[0].Tier))
	assert.Equal(t, "3", view.Entries[1].Listing.ID)
}

func TestRecommend_EmptyProfile(t *testing.T) {
	rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/recommendations", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view recommendationsView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Zero(t, view.Count)
	assert.NotNil(t, view.Entries)
}

func TestRecommend_Strict(t *testing.T) {
	rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/recommendations?strict=true", `{"skills":["Finance"]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_profile", env.Error.Code)

	rec, _ = do(t, newTestServer(), http.MethodPost, "/api/v1/recommendations?strict=true", techProfile)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecommend_BadBody(t *testing.T) {
	rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/recommendations", `{"skills": "not-a-list"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", env.Error.Code)
}

func TestExplain(t *testing.T) {
	s := newTestServer()

	rec, env := do(t, s, http.MethodPost, "/api/v1/listings/1/explanation", `{"skills":["Programming"],"sectors":["Finance"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view struct {
		ListingID         string   `json:"listing_id"`
		Eligible          bool     `json:"eligible"`
		SkillAlignmentPct int      `json:"skill_alignment_pct"`
		SectorMatch       string   `json:"sector_match"`
		CompetitionLevel  string   `json:"competition_level"`
		MatchingSkills    []string `json:"matching_skills"`
		MissingSkills     []string `json:"missing_skills"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))

	assert.Equal(t, "1", view.ListingID)
	assert.True(t, view.Eligible)
	assert.Equal(t, 50, view.SkillAlignmentPct)
	assert.Equal(t, "Good", view.SectorMatch)
	assert.Equal(t, "Low", view.CompetitionLevel)
	assert.Equal(t, []string{"Programming"}, view.MatchingSkills)
	assert.Equal(t, []string{"Data Analysis"}, view.MissingSkills)

	rec, env = do(t, s, http.MethodPost, "/api/v1/listings/42/explanation", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "internship not found", env.Error.Message)
}

func TestListingsSearchAndStats(t *testing.T) {
	s := newTestServer()

	rec, env := do(t, s, http.MethodGet, "/api/v1/listings?q=intern&status=active", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var found catalog.Listings
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Equal(t, 2, found.Len())

	rec, env = do(t, s, http.MethodGet, "/api/v1/listings/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats catalog.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 208, stats.Applications)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/listings/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, s, http.MethodGet, "/api/v1/listings/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptions(t *testing.T) {
	rec, env := do(t, newTestServer(), http.MethodGet, "/api/v1/options", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var options map[string][]string
	require.NoError(t, json.Unmarshal(env.Data, &options))
	assert.Contains(t, options["sectors"], "Technology")
	assert.Len(t, options["education"], 5)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer()

	rec, env := do(t, s, http.MethodPost, "/api/v1/sessions", techProfile)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created sessionView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "ready", created.State)
	assert.Equal(t, 3, created.Recommendations.Count)
	assert.Equal(t, "/api/v1/sessions/"+created.ID, rec.Header().Get("Location"))

	base := "/api/v1/sessions/" + created.ID

	rec, env = do(t, s, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got sessionView
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.Recommendations, got.Recommendations)

	rec, _ = do(t, s, http.MethodPost, base+"/refresh", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, s, http.MethodGet, base+"/listings/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"competition_level":"Medium"`)

	rec, env = do(t, s, http.MethodGet, base+"/listings/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "internship not found", env.Error.Message)

	rec, _ = do(t, s, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, s, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSession_CancelledRequestLeavesNoSession(t *testing.T) {
	s := newTestServer()

	for range 3 {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(techProfile)).WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	}

	assert.Equal(t, 0, s.sessions.Len())
}
