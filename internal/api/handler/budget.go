// internal/api/handler/budget.go
package handler

import (
	"net/http"
	"time"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/service"

	"github.com/shopspring/decimal"
)

// BudgetHandler serves budget CRUD and spend routes.
type BudgetHandler struct {
	budgets service.BudgetService
}

func NewBudgetHandler(budgets service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

type budgetRequest struct {
	Name      *string          `json:"name"`
	Amount    *decimal.Decimal `json:"amount"`
	Period    *string          `json:"period"`
	Category  *string          `json:"category"`
	StartDate *time.Time       `json:"start_date"`
	EndDate   *time.Time       `json:"end_date"`
}

type budgetResponse struct {
	Budget *domain.Budget  `json:"budget"`
	Spent  decimal.Decimal `json:"spent"`
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	in := service.CreateBudgetInput{CallerUserID: userID, EndDate: req.EndDate}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	if req.Period != nil {
		in.Period = *req.Period
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.StartDate != nil {
		in.StartDate = *req.StartDate
	}
	budget, err := h.budgets.CreateBudget(r.Context(), in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, budgetResponse{Budget: budget, Spent: decimal.Zero})
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	budgets, err := h.budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetResponse{Budget: b.Budget, Spent: b.Spent})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	budgetID, err := pathID(r, "budgetID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	budget, err := h.budgets.GetBudget(r.Context(), userID, budgetID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, budgetResponse{Budget: budget.Budget, Spent: budget.Spent})
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	budgetID, err := pathID(r, "budgetID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	budget, err := h.budgets.UpdateBudget(r.Context(), service.UpdateBudgetInput{
		CallerUserID: userID,
		BudgetID:     budgetID,
		Name:         req.Name,
		Amount:       req.Amount,
		Period:       req.Period,
		Category:     req.Category,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	budgetID, err := pathID(r, "budgetID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.budgets.DeleteBudget(r.Context(), userID, budgetID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

type budgetPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category"`
	Description string          `json:"description"`
}

type budgetPaymentResponse struct {
	Wallet      *domain.Wallet      `json:"wallet"`
	Transaction *domain.Transaction `json:"transaction"`
	Spent       decimal.Decimal     `json:"spent"`
}

func (h *BudgetHandler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	budgetID, err := pathID(r, "budgetID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req budgetPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	result, err := h.budgets.PayFromBudget(r.Context(), service.BudgetPaymentInput{
		CallerUserID: userID,
		BudgetID:     budgetID,
		Amount:       req.Amount,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, budgetPaymentResponse{
		Wallet:      result.Wallet,
		Transaction: result.Transaction,
		Spent:       result.Spent,
	})
}
