package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aibos-dev/aibos/internal/ledger"
	"github.com/aibos-dev/aibos/internal/model"
	"github.com/aibos-dev/aibos/internal/store"
)

const dateFormat = "2006-01-02"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	accounts := s.svc.Accounts()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, accounts)
}

type addAccountRequest struct {
	Number      string            `json:"accountNumber"`
	Name        string            `json:"name"`
	Type        model.AccountType `json:"type"`
	Description string            `json:"description"`
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	var req addAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	account, err := s.svc.AddAccount(r.Context(), req.Number, req.Name, req.Type, req.Description)
	s.mu.Unlock()
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

type updateAccountRequest struct {
	Number      *string            `json:"accountNumber"`
	Name        *string            `json:"name"`
	Type        *model.AccountType `json:"type"`
	Description *string            `json:"description"`
	Active      *bool              `json:"active"`
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.svc.Account(id); !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("account %d not found", id))
		return
	}
	err = s.svc.UpdateAccount(r.Context(), id, ledger.AccountPatch{
		Number:      req.Number,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	account, _ := s.svc.Account(id)
	respondJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.svc.Account(id); !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("account %d not found", id))
		return
	}
	if err := s.svc.DeactivateAccount(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")

	s.mu.Lock()
	defer s.mu.Unlock()

	if startParam == "" && endParam == "" {
		respondJSON(w, http.StatusOK, s.svc.Transactions())
		return
	}

	start, err := time.Parse(dateFormat, startParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateFormat, endParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
		return
	}

	txns, err := s.svc.TransactionsByDateRange(r.Context(), start, end)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

type postTransactionRequest struct {
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	DebitAccountID  int             `json:"debitAccountId"`
	CreditAccountID int             `json:"creditAccountId"`
	Amount          decimal.Decimal `json:"amount"`
	UserID          int             `json:"userId"`
}

func (s *Server) handlePostTransaction(w http.ResponseWriter, r *http.Request) {
	var req postTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse(dateFormat, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
	}

	s.mu.Lock()
	txn, err := s.svc.Post(r.Context(), ledger.PostParams{
		Date:            date,
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		UserID:          req.UserID,
	})
	s.mu.Unlock()
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

type trialBalanceRow struct {
	Account model.Account     `json:"account"`
	Balance decimal.Decimal   `json:"balance"`
	Type    model.AccountType `json:"type"`
}

func (s *Server) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := s.svc.TrialBalance()
	s.mu.Unlock()

	out := make([]trialBalanceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, trialBalanceRow{Account: row.Account, Balance: row.Balance, Type: row.Type})
	}
	respondJSON(w, http.StatusOK, out)
}

type summaryResponse struct {
	TotalAssets      decimal.Decimal     `json:"totalAssets"`
	TotalLiabilities decimal.Decimal     `json:"totalLiabilities"`
	NetIncome        decimal.Decimal     `json:"netIncome"`
	CashBalance      decimal.Decimal     `json:"cashBalance"`
	Recent           []model.Transaction `json:"recentTransactions"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sum := s.svc.Summarize()
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, summaryResponse{
		TotalAssets:      sum.TotalAssets,
		TotalLiabilities: sum.TotalLiabilities,
		NetIncome:        sum.NetIncome,
		CashBalance:      sum.CashBalance,
		Recent:           sum.Recent,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap, err := store.Export(r.Context(), s.st)
	s.mu.Unlock()
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap model.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		respondError(w, http.StatusBadRequest, "invalid snapshot body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := store.Import(r.Context(), s.st, snap); err != nil {
		s.respondServiceError(w, err)
		return
	}
	// The in-memory ledger is rebuilt from the restored state.
	svc, err := ledger.Load(r.Context(), s.st)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.svc = svc
	w.WriteHeader(http.StatusNoContent)
}

// respondServiceError maps ledger and store errors onto HTTP statuses:
// validation failures are 422, missing records 404, everything else 500.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var verr ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
