// internal/api/handler/goal.go
package handler

import (
	"context"
	"net/http"
	"time"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/service"

	"github.com/shopspring/decimal"
)

// SavingsGoalHandler serves savings goal CRUD and funding routes.
type SavingsGoalHandler struct {
	goals service.SavingsGoalService
}

func NewSavingsGoalHandler(goals service.SavingsGoalService) *SavingsGoalHandler {
	return &SavingsGoalHandler{goals: goals}
}

type goalRequest struct {
	Name         *string          `json:"name"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	Deadline     *time.Time       `json:"deadline"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
}

func (h *SavingsGoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	in := service.CreateGoalInput{
		CallerUserID: userID,
		Deadline:     req.Deadline,
		Category:     req.Category,
		Description:  req.Description,
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.TargetAmount != nil {
		in.TargetAmount = *req.TargetAmount
	}
	goal, err := h.goals.CreateGoal(r.Context(), in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, goal)
}

func (h *SavingsGoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	goals, err := h.goals.ListGoals(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if goals == nil {
		goals = []domain.SavingsGoal{}
	}
	respondWithJSON(w, http.StatusOK, goals)
}

func (h *SavingsGoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	goal, err := h.goals.GetGoal(r.Context(), userID, goalID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, goal)
}

func (h *SavingsGoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	goal, err := h.goals.UpdateGoal(r.Context(), service.UpdateGoalInput{
		CallerUserID: userID,
		GoalID:       goalID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, goal)
}

func (h *SavingsGoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.goals.DeleteGoal(r.Context(), userID, goalID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

type goalMovementResponse struct {
	Wallet      *domain.Wallet      `json:"wallet"`
	Goal        *domain.SavingsGoal `json:"goal"`
	Transaction *domain.Transaction `json:"transaction"`
}

func (h *SavingsGoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.goals.ContributeToGoal)
}

func (h *SavingsGoalHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.goals.WithdrawFromGoal)
}

func (h *SavingsGoalHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, in service.GoalMovementInput) (*service.GoalMovementResult, error)) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	result, err := op(r.Context(), service.GoalMovementInput{
		CallerUserID: userID,
		GoalID:       goalID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, goalMovementResponse{
		Wallet:      result.Wallet,
		Goal:        result.Goal,
		Transaction: result.Transaction,
	})
}
