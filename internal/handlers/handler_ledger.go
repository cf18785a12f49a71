package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
	"github.com/SscSPs/arap_ledger/internal/dto"
	"github.com/SscSPs/arap_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients retry a payment without applying it twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// ledgerHandler handles HTTP requests for debtor and creditor accounts.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// RegisterLedgerRoutes registers routes related to the receivable and payable ledger.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	RegisterValidators()
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/sale-ledger", h.getSaleLedger)
		ledger.GET("/:kind/accounts", h.listAccounts)
		ledger.GET("/:kind/accounts/:accountID", h.getAccount)
		ledger.POST("/:kind/accounts/:accountID/payments", h.recordPayment)
		ledger.GET("/:kind/accounts/:accountID/payments", h.listPayments)
		ledger.GET("/:kind/totals", h.getTotals)
		ledger.GET("/:kind/search", h.search)
	}
}

// bindKind binds and parses the :kind path segment, writing a 400 on failure.
func bindKind(c *gin.Context) (dto.LedgerPathParams, domain.AccountKind, bool) {
	var params dto.LedgerPathParams
	if err := c.ShouldBindUri(&params); err != nil {
		respondBindError(c, err)
		return params, "", false
	}
	kind, err := domain.ParseAccountKind(params.Kind)
	if err != nil {
		respondError(c, err, "Invalid account kind")
		return params, "", false
	}
	return params, kind, true
}

// listAccounts godoc
// @Summary List debtors or creditors
// @Description Retrieves a zero-based page of accounts of one kind, ordered by name
// @Tags ledger
// @Produce  json
// @Param   kind path string true "Account kind" Enums(debtors, creditors)
// @Param   page query int false "Zero-based page number" default(0)
// @Param   size query int false "Page size (server default when omitted)"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid kind or paging parameters"
// @Failure 503 {object} dto.ErrorResponse "Ledger store unavailable"
// @Router /ledger/{kind}/accounts [get]
func (h *ledgerHandler) listAccounts(c *gin.Context) {
	_, kind, ok := bindKind(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.ledgerService.ListAccounts(c.Request.Context(), kind, params.Page, params.Size)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(page))
}

// getAccount godoc
// @Summary Get a debtor or creditor
// @Description Retrieves one account with statuses classified as of now
// @Tags ledger
// @Produce  json
// @Param   kind path string true "Account kind" Enums(debtors, creditors)
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 503 {object} dto.ErrorResponse "Ledger store unavailable"
// @Router /ledger/{kind}/accounts/{accountID} [get]
func (h *ledgerHandler) getAccount(c *gin.Context) {
	params, kind, ok := bindKind(c)
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), kind, params.AccountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// recordPayment godoc
// @Summary Record a payment
// @Description Applies a payment to a creditor balance or to one sale of a debtor
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   kind path string true "Account kind" Enums(debtors, creditors)
// @Param   accountID path string true "Account ID"
// @Param   Idempotency-Key header string false "Replays return the committed result"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount, missing sale reference or bad input"
// @Failure 404 {object} dto.ErrorResponse "Account or sale not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, re-read and retry"
// @Failure 422 {object} dto.ErrorResponse "Amount exceeds outstanding balance"
// @Failure 503 {object} dto.ErrorResponse "Ledger store unavailable"
// @Router /ledger/{kind}/accounts/{accountID}/payments [post]
func (h *ledgerHandler) recordPayment(c *gin.Context) {
	params, kind, ok := bindKind(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid payment request")
		return
	}
	idempotencyKey := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if err := domain.ValidateIdempotencyKey(idempotencyKey); err != nil {
		respondError(c, err, "Invalid "+IdempotencyKeyHeader+" header")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c).With(
		slog.String("kind", string(kind)),
		slog.String("account_id", params.AccountID))

	// Decimal text is interpreted in the account's own currency precision.
	currency := domain.DefaultCurrencyCode
	if req.Amount != "" {
		account, err := h.ledgerService.GetAccount(ctx, kind, params.AccountID)
		if err != nil {
			respondError(c, err, "Failed to retrieve account")
			return
		}
		currency = account.Currency()
	}

	cmd, err := req.ToCommand(kind, params.AccountID, currency, idempotencyKey)
	if err != nil {
		respondError(c, err, "Invalid payment request")
		return
	}

	logger.Info("Received request to record payment",
		slog.String("sale_id", cmd.SaleID),
		slog.Int64("amount_minor", cmd.Amount.Minor()))

	account, err := h.ledgerService.RecordPayment(ctx, cmd)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listPayments godoc
// @Summary List an account's payments
// @Description Retrieves the payment ledger entries of one account, oldest first
// @Tags ledger
// @Produce  json
// @Param   kind path string true "Account kind" Enums(debtors, creditors)
// @Param   accountID path string true "Account ID"
// @Success 200 {array} dto.PaymentEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /ledger/{kind}/accounts/{accountID}/payments [get]
func (h *ledgerHandler) listPayments(c *gin.Context) {
	params, kind, ok := bindKind(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	account, err := h.ledgerService.GetAccount(ctx, kind, params.AccountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	entries, err := h.ledgerService.ListPayments(ctx, kind, params.AccountID)
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentEntryResponses(entries, account.Currency()))
}

// getTotals godoc
// @Summary Outstanding and overdue totals
// @Description Aggregates one consistent snapshot of all accounts of a kind
// @Tags ledger
// @Produce  json
// @Param   kind path string true "Account kind" Enums(debtors, creditors)
// @Success 200 {object} dto.TotalsResponse
// @Failure 503 {object} dto.ErrorResponse "Ledger store unavailable"
// @Router /ledger/{kind}/totals [get]
func (h *ledgerHandler) getTotals(c *gin.Context) {
	_, kind, ok := bindKind(c)
	if !ok {
		return
	}

	totals, err := h.ledgerService.GetTotals(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, dto.ToTotalsResponse(totals))
}

// search godoc
// @Summary Search debtors or creditors
// @Description Case-insensitive substring match over name and contact; an empty query returns everything
// @Tags ledger
// @Produce  json
// @Param   kind path string true "Account kind" Enums(debtors, creditors)
// @Param   q query string false "Search term"
// @Success 200 {array} dto.AccountResponse
// @Failure 503 {object} dto.ErrorResponse "Ledger store unavailable"
// @Router /ledger/{kind}/search [get]
func (h *ledgerHandler) search(c *gin.Context) {
	_, kind, ok := bindKind(c)
	if !ok {
		return
	}
	var params dto.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.ledgerService.Search(c.Request.Context(), kind, params.Query)
	if err != nil {
		respondError(c, err, "Failed to search accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getSaleLedger godoc
// @Summary Sale-itemized debtor ledger
// @Description Lists debtors with their sales; debtorsOnly restricts to accounts that still owe
// @Tags ledger
// @Produce  json
// @Param   debtorsOnly query bool false "Only debtors with an outstanding balance" default(false)
// @Success 200 {array} dto.AccountResponse
// @Failure 503 {object} dto.ErrorResponse "Ledger store unavailable"
// @Router /ledger/sale-ledger [get]
func (h *ledgerHandler) getSaleLedger(c *gin.Context) {
	var params dto.SaleLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.ledgerService.GetSaleLedger(c.Request.Context(), params.DebtorsOnly)
	if err != nil {
		respondError(c, err, "Failed to list sale ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}
