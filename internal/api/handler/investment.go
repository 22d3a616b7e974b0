// internal/api/handler/investment.go
package handler

import (
	"context"
	"net/http"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/service"

	"github.com/shopspring/decimal"
)

// InvestmentHandler serves investment CRUD and funding routes.
type InvestmentHandler struct {
	investments service.InvestmentService
}

func NewInvestmentHandler(investments service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

type createInvestmentRequest struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	RiskLevel    string           `json:"risk_level"`
	TargetReturn *decimal.Decimal `json:"target_return"`
	Description  *string          `json:"description"`
}

type investmentMovementResponse struct {
	Wallet      *domain.Wallet      `json:"wallet"`
	Investment  *domain.Investment  `json:"investment"`
	Transaction *domain.Transaction `json:"transaction"`
}

func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req createInvestmentRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	result, err := h.investments.CreateInvestment(r.Context(), service.CreateInvestmentInput{
		CallerUserID: userID,
		Name:         req.Name,
		Type:         req.Type,
		Amount:       req.Amount,
		RiskLevel:    req.RiskLevel,
		TargetReturn: req.TargetReturn,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, investmentMovementResponse{
		Wallet:      result.Wallet,
		Investment:  result.Investment,
		Transaction: result.Transaction,
	})
}

func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	investments, err := h.investments.ListInvestments(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if investments == nil {
		investments = []domain.Investment{}
	}
	respondWithJSON(w, http.StatusOK, investments)
}

func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	investmentID, err := pathID(r, "investmentID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	investment, err := h.investments.GetInvestment(r.Context(), userID, investmentID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, investment)
}

type updateInvestmentRequest struct {
	Name         *string                  `json:"name"`
	Type         *string                  `json:"type"`
	RiskLevel    *string                  `json:"risk_level"`
	TargetReturn *decimal.Decimal         `json:"target_return"`
	Status       *domain.InvestmentStatus `json:"status"`
	Description  *string                  `json:"description"`
}

func (h *InvestmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	investmentID, err := pathID(r, "investmentID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req updateInvestmentRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	investment, err := h.investments.UpdateInvestment(r.Context(), service.UpdateInvestmentInput{
		CallerUserID: userID,
		InvestmentID: investmentID,
		Name:         req.Name,
		Type:         req.Type,
		RiskLevel:    req.RiskLevel,
		TargetReturn: req.TargetReturn,
		Status:       req.Status,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, investment)
}

func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	investmentID, err := pathID(r, "investmentID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.investments.DeleteInvestment(r.Context(), userID, investmentID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *InvestmentHandler) Fund(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.investments.FundInvestment)
}

func (h *InvestmentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.investments.WithdrawFromInvestment)
}

func (h *InvestmentHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, in service.InvestmentMovementInput) (*service.InvestmentMovementResult, error)) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	investmentID, err := pathID(r, "investmentID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	result, err := op(r.Context(), service.InvestmentMovementInput{
		CallerUserID: userID,
		InvestmentID: investmentID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, investmentMovementResponse{
		Wallet:      result.Wallet,
		Investment:  result.Investment,
		Transaction: result.Transaction,
	})
}
