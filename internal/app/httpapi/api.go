// Package httpapi exposes the REST handlers and translates HTTP requests to
// the arena service.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/faangarena/arena/internal/app/arena"
	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/antifraude"
	"github.com/faangarena/arena/internal/platform/identity"
	"github.com/faangarena/arena/internal/platform/metrics"
)

// API bundles the HTTP handlers bound to the arena service and the logger.
type API struct {
	service domain.ArenaService
	logger  *slog.Logger
}

func New(service domain.ArenaService, logger *slog.Logger) *API {
	return &API{service: service, logger: logger}
}

func (a *API) Register(mux *http.ServeMux) {
	// Routes stay centralized for reuse across servers and tests.
	mux.HandleFunc("/api/companies", a.handleCompanies)
	mux.HandleFunc("/api/battle", a.handleBattle)
	mux.HandleFunc("/api/vote", a.handleVote)
	mux.HandleFunc("/api/stats", a.handleStats)
	mux.HandleFunc("/", a.handleRoot)
}

// WithCORS answers preflight requests and stamps permissive headers on
// everything else. The API is meant to be called from static sites on other
// origins.
func WithCORS(next http.Handler, allowedOrigin string) http.Handler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Device-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		return
	}
	if r.Method != http.MethodGet {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<h1>FAANG Arena API</h1><p>Call /api/* endpoints from your site.</p>"))
}

func (a *API) handleCompanies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	companies, err := a.service.Leaderboard(r.Context())
	if err != nil {
		a.logger.Error("leaderboard read failed", "err", err)
		respondError(w, err)
		return
	}
	if companies == nil {
		companies = []domain.Company{}
	}

	respondJSON(w, http.StatusOK, companies)
}

func (a *API) handleBattle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	pair, err := a.service.Battle(r.Context())
	if err != nil {
		if !errors.Is(err, arena.ErrInsufficientRoster) {
			a.logger.Error("battle pick failed", "err", err)
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

type voteRequest struct {
	WinnerID string `json:"winnerId"`
	LoserID  string `json:"loserId"`
}

type voteResponse struct {
	Success      bool            `json:"success"`
	ScoreChange  int             `json:"scoreChange"`
	WinnerScore  int             `json:"winnerScore"`
	LoserScore   int             `json:"loserScore"`
	NextOpponent *domain.Company `json:"nextOpponent"`
}

func (a *API) handleVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ObserveVoteRequest("invalid_payload")
		a.logger.Warn("invalid vote payload", "err", err)
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	ident := identity.Resolve(r)

	result, err := a.service.Vote(r.Context(), domain.VoteRequest{
		WinnerID:    domain.CompanyID(req.WinnerID),
		LoserID:     domain.CompanyID(req.LoserID),
		IdentityKey: ident.Key,
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		status := statusFromError(err)
		metrics.ObserveVoteRequest(status)
		a.logger.Warn("vote rejected", "err", err, "winner", req.WinnerID, "loser", req.LoserID, "status", status)
		respondError(w, err)
		return
	}

	metrics.ObserveVoteRequest("accepted")
	respondJSON(w, http.StatusOK, voteResponse{
		Success:      true,
		ScoreChange:  result.Delta,
		WinnerScore:  result.WinnerScore,
		LoserScore:   result.LoserScore,
		NextOpponent: result.NextOpponent,
	})
	a.logger.Info("vote accepted", "winner", req.WinnerID, "loser", req.LoserID, "delta", result.Delta)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	stats, err := a.service.Stats(r.Context())
	if err != nil {
		a.logger.Error("stats read failed", "err", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, arena.ErrInvalidVote):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, arena.ErrUnknownCompany):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, arena.ErrInsufficientRoster):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
		message = err.Error()
	case errors.Is(err, domain.ErrConflict):
		// Transient by contract: nothing was applied, the client may resend
		// the same vote.
		message = "vote conflicted with a concurrent update, retry"
	}

	respondJSON(w, status, map[string]string{"error": message})
}

func statusFromError(err error) string {
	switch {
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, arena.ErrInvalidVote):
		return "invalid"
	case errors.Is(err, arena.ErrUnknownCompany):
		return "unknown_company"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
