// internal/api/handler/wallet.go
package handler

import (
	"net/http"
	"strconv"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/service"

	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// WalletHandler serves user registration, wallet reads and direct balance
// mutations.
type WalletHandler struct {
	wallets service.WalletService
}

func NewWalletHandler(wallets service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

type createUserRequest struct {
	Username string `json:"username"`
}

type createUserResponse struct {
	User   *domain.User   `json:"user"`
	Wallet *domain.Wallet `json:"wallet"`
}

func (h *WalletHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	user, wallet, err := h.wallets.CreateUserAndWallet(r.Context(), req.Username)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, createUserResponse{User: user, Wallet: wallet})
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	wallet, err := h.wallets.GetWallet(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, wallet)
}

type amountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type mutationResponse struct {
	Wallet      *domain.Wallet      `json:"wallet"`
	Transaction *domain.Transaction `json:"transaction"`
}

func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
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
	wallet, transaction, err := h.wallets.Deposit(r.Context(), service.DepositInput{
		CallerUserID: userID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mutationResponse{Wallet: wallet, Transaction: transaction})
}

func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
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
	wallet, transaction, err := h.wallets.Withdraw(r.Context(), service.WithdrawInput{
		CallerUserID: userID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mutationResponse{Wallet: wallet, Transaction: transaction})
}

type transferRequest struct {
	Recipient   string          `json:"recipient"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type transferResponse struct {
	Wallet   *domain.Wallet      `json:"wallet"`
	Outgoing *domain.Transaction `json:"outgoing"`
	Incoming *domain.Transaction `json:"incoming"`
}

func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	result, err := h.wallets.Transfer(r.Context(), service.TransferInput{
		CallerUserID:      userID,
		RecipientUsername: req.Recipient,
		Amount:            req.Amount,
		Description:       req.Description,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, transferResponse{
		Wallet:   result.SenderWallet,
		Outgoing: result.Outgoing,
		Incoming: result.Incoming,
	})
}

type historyResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	in := service.HistoryInput{CallerUserID: userID, Limit: defaultHistoryLimit}
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			in.Limit = min(limit, maxHistoryLimit)
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			in.Offset = offset
		}
	}
	if raw := q.Get("type"); raw != "" {
		txType := domain.TransactionType(raw)
		if !txType.Valid() {
			respondWithError(w, errInvalidType)
			return
		}
		in.Type = &txType
	}

	transactions, total, err := h.wallets.GetTransactionHistory(r.Context(), in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, historyResponse{
		Transactions: transactions,
		Total:        total,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
}

type auditResponse struct {
	Balance    decimal.Decimal `json:"balance"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
	Consistent bool            `json:"consistent"`
}

// AuditWallet exposes the balance-vs-ledger reconciliation check.
func (h *WalletHandler) AuditWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	balance, sum, err := h.wallets.AuditWallet(r.Context(), userID)
	if err == nil {
		respondWithJSON(w, http.StatusOK, auditResponse{Balance: balance, LedgerSum: sum, Consistent: true})
		return
	}
	respondWithError(w, err)
}
