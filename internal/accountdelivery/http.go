// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/flatbank/internal/domain"
	"github.com/go-petr/flatbank/internal/middleware"
	"github.com/go-petr/flatbank/pkg/errorspkg"
	"github.com/go-petr/flatbank/pkg/moneypkg"
	"github.com/go-petr/flatbank/pkg/tokenpkg"
	"github.com/go-petr/flatbank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, kind domain.Kind) (domain.Account, error)
	Authenticate(ctx context.Context, id, passcode string) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	Delete(ctx context.Context, id string) error
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (domain.Receipt, error)
	TopUpMobile(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service             Service
	tokenMaker          tokenpkg.Maker
	accessTokenDuration time.Duration
}

// NewHandler returns account handler.
func NewHandler(as Service, tm tokenpkg.Maker, accessTokenDuration time.Duration) Handler {
	return Handler{
		service:             as,
		tokenMaker:          tm,
		accessTokenDuration: accessTokenDuration,
	}
}

type accountData struct {
	Account  domain.Account `json:"account"`
	Passcode string         `json:"passcode,omitempty"`
	Details  string         `json:"details,omitempty"`
}

type receiptData struct {
	Receipt domain.Receipt `json:"receipt"`
	Message string         `json:"message"`
}

// errorStatus maps service errors to http status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotPersonal):
		return http.StatusForbidden
	}

	return http.StatusInternalServerError
}

func respondError(gctx *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		gctx.JSON(status, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(status, web.Error(err))
}

func respondBindError(gctx *gin.Context, err error) {
	var (
		ve     validator.ValidationErrors
		errMsg = "invalid request body"
	)

	if errors.As(err, &ve) {
		errMsg = web.GetErrorMsg(ve)
	}

	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})
}

type createRequest struct {
	Kind string `json:"kind" binding:"required,kind"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		respondBindError(gctx, err)
		return
	}

	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	acc, err := h.service.Create(ctx, kind)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{
		Data: accountData{Account: acc, Passcode: acc.Passcode},
	})
}

type loginRequest struct {
	AccountID string `json:"account_id" binding:"required,numeric"`
	Passcode  string `json:"passcode" binding:"required,numeric"`
}

// Login handles http request to authenticate an account holder.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		respondBindError(gctx, err)
		return
	}

	acc, err := h.service.Authenticate(ctx, req.AccountID, req.Passcode)
	if err != nil {
		respondError(gctx, err)
		return
	}

	token, payload, err := h.tokenMaker.CreateToken(acc.ID, h.accessTokenDuration)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		AccessToken:          token,
		AccessTokenExpiresAt: payload.ExpiredAt.Format(time.RFC3339),
		Data:                 accountData{Account: acc},
	})
}

func authAccountID(gctx *gin.Context) string {
	return gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload).AccountID
}

// Get handles http request to view the logged in account.
func (h *Handler) Get(gctx *gin.Context) {
	acc, err := h.service.Get(gctx.Request.Context(), authAccountID(gctx))
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: accountData{Account: acc, Details: acc.Details()},
	})
}

// Delete handles http request to close the logged in account.
func (h *Handler) Delete(gctx *gin.Context) {
	if err := h.service.Delete(gctx.Request.Context(), authAccountID(gctx)); err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

type operation func(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)

func (h *Handler) applyAmount(gctx *gin.Context, op operation) {
	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		respondBindError(gctx, err)
		return
	}

	amount, err := moneypkg.Parse(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	receipt, err := op(gctx.Request.Context(), authAccountID(gctx), amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: receiptData{Receipt: receipt, Message: receipt.String()},
	})
}

// Deposit handles http request to deposit money.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.applyAmount(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.applyAmount(gctx, h.service.Withdraw)
}

// TopUpMobile handles http request to top up the mobile balance.
func (h *Handler) TopUpMobile(gctx *gin.Context) {
	h.applyAmount(gctx, h.service.TopUpMobile)
}

type transferRequest struct {
	ToAccountID string `json:"to_account_id" binding:"required,numeric"`
	Amount      string `json:"amount" binding:"required,amount"`
}

// Transfer handles http request to transfer money to another account.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		respondBindError(gctx, err)
		return
	}

	amount, err := moneypkg.Parse(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	receipt, err := h.service.Transfer(ctx, authAccountID(gctx), req.ToAccountID, amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: receiptData{Receipt: receipt, Message: receipt.String()},
	})
}
