package http

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"tracker/internal/advice"
	"tracker/internal/core"
	"tracker/internal/gamify"
)

type expenseItem struct {
	ID          int64  `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// Amount travels as a string so both decimal separators survive JSON intact;
// parsing and validation happen in one place.
type createExpenseRequest struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	exp := core.Expense{
		Amount:   core.Money{Cents: cents},
		Category: sanitizeInput(req.Category),
		Date:     sanitizeInput(req.Date),
	}
	if err := exp.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid expense: "+err.Error())
		return
	}

	id, err := s.expenses.Create(r.Context(), exp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create error",
			"error", err, "category", exp.Category, "amount_cents", exp.Amount.Cents)
		respondError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	s.dashboardCache.Delete(dashboardCacheKey)

	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	records, err := s.expenses.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	items := make([]expenseItem, 0, len(records))
	for _, e := range records {
		items = append(items, expenseItem{
			ID:          e.ID,
			AmountCents: e.Amount.Cents,
			Amount:      e.Amount.Display(),
			Category:    e.Category,
			Date:        e.Date,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"expenses": items})
}

type bucketTotal struct {
	Key         string `json:"key"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type dashboardResponse struct {
	TotalCents int64         `json:"total_cents"`
	Total      string        `json:"total"`
	ByCategory []bucketTotal `json:"by_category"`
	ByDate     []bucketTotal `json:"by_date"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if data, found := s.dashboardCache.Get(dashboardCacheKey); found {
		respondJSON(w, http.StatusOK, data)
		return
	}

	records, err := s.expenses.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	data := buildDashboard(records)
	s.dashboardCache.Set(dashboardCacheKey, data)
	respondJSON(w, http.StatusOK, data)
}

func buildDashboard(records []core.Expense) dashboardResponse {
	total := core.Total(records)
	data := dashboardResponse{
		TotalCents: total.Cents,
		Total:      total.Display(),
		ByCategory: bucketSlice(core.ByCategory(records), byAmountDesc),
		ByDate:     bucketSlice(core.ByDate(records), byKeyDesc),
	}
	return data
}

type bucketOrder int

const (
	byAmountDesc bucketOrder = iota
	byKeyDesc
)

// bucketSlice renders a totals map as a deterministically ordered slice:
// categories largest-first for the pie chart, dates newest-first for the bar
// chart.
func bucketSlice(totals map[string]core.Money, order bucketOrder) []bucketTotal {
	out := make([]bucketTotal, 0, len(totals))
	for key, amount := range totals {
		out = append(out, bucketTotal{
			Key:         key,
			AmountCents: amount.Cents,
			Amount:      amount.Display(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		switch order {
		case byKeyDesc:
			return out[i].Key > out[j].Key
		default:
			if out[i].AmountCents != out[j].AmountCents {
				return out[i].AmountCents > out[j].AmountCents
			}
			return out[i].Key < out[j].Key
		}
	})
	return out
}

type badgesResponse struct {
	Streak       int  `json:"streak"`
	SavedGoalMet bool `json:"saved_goal_met"`
	StreakBadge  bool `json:"streak_badge"`
	FrugalFoodie bool `json:"frugal_foodie"`
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.expenses.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load badges")
		return
	}

	b := gamify.Evaluate(records, s.now(), s.thresholds)
	respondJSON(w, http.StatusOK, badgesResponse{
		Streak:       b.Streak,
		SavedGoalMet: b.SavedGoalMet,
		StreakBadge:  b.StreakBadge,
		FrugalFoodie: b.FrugalFoodie,
	})
}

type adviceRequest struct {
	Goal string `json:"goal"`
}

type adviceResponse struct {
	State  advice.State `json:"state"`
	Advice string       `json:"advice,omitempty"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		state, text := s.advisor.Snapshot()
		respondJSON(w, http.StatusOK, adviceResponse{State: state, Advice: text})
	case http.MethodPost:
		s.handleRequestAdvice(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleRequestAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal := sanitizeInput(req.Goal)
	if goal == "" {
		goal = "General"
	}

	records, err := s.expenses.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	if err := s.advisor.Request(r.Context(), records, goal); err != nil {
		if errors.Is(err, advice.ErrRequestInFlight) {
			respondError(w, http.StatusConflict, "an advice request is already in progress")
			return
		}
		slog.ErrorContext(r.Context(), "Advice request error", "error", err, "goal", goal)
		respondError(w, http.StatusInternalServerError, "failed to request advice")
		return
	}

	respondJSON(w, http.StatusAccepted, adviceResponse{State: advice.StateLoading})
}

type loginRequest struct {
	IDToken string `json:"id_token"`
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.verifier == nil {
		respondError(w, http.StatusNotFound, "login is not enabled")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil || req.IDToken == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email, err := s.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", "error", err)
		respondError(w, http.StatusUnauthorized, "sign in failed, please try again")
		return
	}

	token := s.sessions.Create(email)
	respondJSON(w, http.StatusOK, map[string]string{"token": token, "email": email})
}
