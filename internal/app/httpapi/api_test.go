package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/faangarena/arena/internal/app/arena"
	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/antifraude"
)

type mockArenaService struct {
	mock.Mock
}

func (m *mockArenaService) Vote(ctx context.Context, req domain.VoteRequest) (domain.VoteResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.VoteResult), args.Error(1)
}

func (m *mockArenaService) Battle(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	companies, _ := args.Get(0).([]domain.Company)
	return companies, args.Error(1)
}

func (m *mockArenaService) Leaderboard(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	companies, _ := args.Get(0).([]domain.Company)
	return companies, args.Error(1)
}

func (m *mockArenaService) Stats(ctx context.Context) (domain.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Stats), args.Error(1)
}

func newTestAPI(service domain.ArenaService) http.Handler {
	mux := http.NewServeMux()
	api := New(service, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	api.Register(mux)
	return WithCORS(mux, "*")
}

func TestHandleVote_WhenVoteAccepted_ShouldReturnScores(t *testing.T) {
	service := new(mockArenaService)
	service.On("Vote", mock.Anything, mock.MatchedBy(func(req domain.VoteRequest) bool {
		return req.WinnerID == "google" && req.LoserID == "meta" && req.IdentityKey == "DEVICE#abc-123"
	})).Return(domain.VoteResult{
		Delta:       16,
		WinnerScore: 516,
		LoserScore:  492,
		NextOpponent: &domain.Company{
			ID:    "amazon",
			Name:  "Amazon",
			Score: 500,
		},
	}, nil)

	body, _ := json.Marshal(map[string]string{"winnerId": "google", "loserId": "meta"})
	req := httptest.NewRequest(http.MethodPost, "/api/vote", bytes.NewReader(body))
	req.Header.Set("X-Device-Id", "abc-123")
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success      bool            `json:"success"`
		ScoreChange  int             `json:"scoreChange"`
		WinnerScore  int             `json:"winnerScore"`
		LoserScore   int             `json:"loserScore"`
		NextOpponent *domain.Company `json:"nextOpponent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 16, resp.ScoreChange)
	assert.Equal(t, 516, resp.WinnerScore)
	assert.Equal(t, 492, resp.LoserScore)
	require.NotNil(t, resp.NextOpponent)
	assert.Equal(t, domain.CompanyID("amazon"), resp.NextOpponent.ID)

	service.AssertExpectations(t)
}

func TestHandleVote_WhenBodyIsNotJSON_ShouldReturn400(t *testing.T) {
	service := new(mockArenaService)

	req := httptest.NewRequest(http.MethodPost, "/api/vote", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything)
}

func TestHandleVote_WhenVoteIsInvalid_ShouldReturn400(t *testing.T) {
	service := new(mockArenaService)
	service.On("Vote", mock.Anything, mock.Anything).
		Return(domain.VoteResult{}, arena.ErrInvalidVote)

	body, _ := json.Marshal(map[string]string{"winnerId": "google", "loserId": "google"})
	req := httptest.NewRequest(http.MethodPost, "/api/vote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVote_WhenCompanyUnknown_ShouldReturn400(t *testing.T) {
	service := new(mockArenaService)
	service.On("Vote", mock.Anything, mock.Anything).
		Return(domain.VoteResult{}, arena.ErrUnknownCompany)

	body, _ := json.Marshal(map[string]string{"winnerId": "ghost", "loserId": "meta"})
	req := httptest.NewRequest(http.MethodPost, "/api/vote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVote_WhenRateLimited_ShouldReturn429(t *testing.T) {
	service := new(mockArenaService)
	service.On("Vote", mock.Anything, mock.Anything).
		Return(domain.VoteResult{}, antifraude.ErrRateLimitExceeded)

	body, _ := json.Marshal(map[string]string{"winnerId": "google", "loserId": "meta"})
	req := httptest.NewRequest(http.MethodPost, "/api/vote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleVote_WhenCommitConflicts_ShouldReturn500WithRetryHint(t *testing.T) {
	service := new(mockArenaService)
	service.On("Vote", mock.Anything, mock.Anything).
		Return(domain.VoteResult{}, domain.ErrConflict)

	body, _ := json.Marshal(map[string]string{"winnerId": "google", "loserId": "meta"})
	req := httptest.NewRequest(http.MethodPost, "/api/vote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "retry")
}

func TestHandleVote_WhenMethodIsGet_ShouldReturn405(t *testing.T) {
	service := new(mockArenaService)

	req := httptest.NewRequest(http.MethodGet, "/api/vote", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleBattle_WhenRosterSuffices_ShouldReturnPair(t *testing.T) {
	service := new(mockArenaService)
	service.On("Battle", mock.Anything).Return([]domain.Company{
		{ID: "google", Name: "Google", Score: 520},
		{ID: "netflix", Name: "Netflix", Score: 480},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/battle", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pair []domain.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.Len(t, pair, 2)
	assert.NotEqual(t, pair[0].ID, pair[1].ID)
}

func TestHandleBattle_WhenRosterTooSmall_ShouldReturn400(t *testing.T) {
	service := new(mockArenaService)
	service.On("Battle", mock.Anything).Return(nil, arena.ErrInsufficientRoster)

	req := httptest.NewRequest(http.MethodGet, "/api/battle", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompanies_WhenEmpty_ShouldReturnEmptyArray(t *testing.T) {
	service := new(mockArenaService)
	service.On("Leaderboard", mock.Anything).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleStats_ShouldReturnTotals(t *testing.T) {
	service := new(mockArenaService)
	service.On("Stats", mock.Anything).Return(domain.Stats{TotalVotes: 1234, TotalCompanies: 9}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1234), stats.TotalVotes)
	assert.Equal(t, int64(9), stats.TotalCompanies)
}

func TestHandleRoot_WhenPathUnmatched_ShouldReturn404(t *testing.T) {
	service := new(mockArenaService)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}

func TestWithCORS_WhenPreflight_ShouldReturn204(t *testing.T) {
	service := new(mockArenaService)

	req := httptest.NewRequest(http.MethodOptions, "/api/vote", nil)
	rec := httptest.NewRecorder()

	newTestAPI(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Device-Id")
	service.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything)
}
