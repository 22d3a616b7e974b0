// internal/api/handler/emergencyfund.go
package handler

import (
	"context"
	"net/http"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/service"

	"github.com/shopspring/decimal"
)

// EmergencyFundHandler serves the one-per-user emergency fund routes.
type EmergencyFundHandler struct {
	funds service.EmergencyFundService
}

func NewEmergencyFundHandler(funds service.EmergencyFundService) *EmergencyFundHandler {
	return &EmergencyFundHandler{funds: funds}
}

type fundTargetRequest struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
}

func (h *EmergencyFundHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req fundTargetRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	fund, err := h.funds.CreateFund(r.Context(), userID, req.TargetAmount)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, fund)
}

func (h *EmergencyFundHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	fund, err := h.funds.GetFund(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fund)
}

func (h *EmergencyFundHandler) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req fundTargetRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	fund, err := h.funds.UpdateFundTarget(r.Context(), userID, req.TargetAmount)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fund)
}

type fundMovementResponse struct {
	Wallet      *domain.Wallet        `json:"wallet"`
	Fund        *domain.EmergencyFund `json:"fund"`
	Transaction *domain.Transaction   `json:"transaction"`
}

func (h *EmergencyFundHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.funds.ContributeToFund)
}

func (h *EmergencyFundHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.funds.WithdrawFromFund)
}

func (h *EmergencyFundHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, in service.FundMovementInput) (*service.FundMovementResult, error)) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	result, err := op(r.Context(), service.FundMovementInput{
		CallerUserID: userID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fundMovementResponse{
		Wallet:      result.Wallet,
		Fund:        result.Fund,
		Transaction: result.Transaction,
	})
}
