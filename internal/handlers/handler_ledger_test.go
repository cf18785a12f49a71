package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
	"github.com/SscSPs/arap_ledger/internal/dto"
	"github.com/SscSPs/arap_ledger/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, kind, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) ListAccounts(ctx context.Context, kind domain.AccountKind, page int, size int) (*domain.AccountPage, error) {
	args := m.Called(ctx, kind, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountPage), args.Error(1)
}

func (m *MockLedgerService) GetSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, debtorsOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerService) ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error) {
	args := m.Called(ctx, kind, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentEntry), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, cmd domain.PaymentCommand) (*domain.Account, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) GetTotals(ctx context.Context, kind domain.AccountKind) (*domain.LedgerTotals, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTotals), args.Error(1)
}

func (m *MockLedgerService) Search(ctx context.Context, kind domain.AccountKind, term string) ([]domain.Account, error) {
	args := m.Called(ctx, kind, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite Setup ---

type LedgerHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockLedgerService
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterLedgerRoutes(v1, suite.mockService)
}

func (suite *LedgerHandlerTestSuite) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) doRaw(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sampleCreditor() *domain.Account {
	return &domain.Account{
		AccountID:    "cred-1",
		Kind:         domain.KindCreditor,
		Name:         "Steel Supply Co",
		CurrencyCode: "USD",
		Balance:      120000,
		DueDate:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:       domain.StatusPending,
		Version:      3,
	}
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestGetAccount_Success() {
	suite.mockService.On("GetAccount", mock.Anything, domain.KindCreditor, "cred-1").Return(sampleCreditor(), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/creditors/accounts/cred-1", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("cred-1", body.AccountID)
	suite.Equal(int64(120000), body.Balance.MinorUnits)
	suite.Equal("1200.00", body.Balance.Value)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetAccount_InvalidKind() {
	w := suite.do(http.MethodGet, "/api/v1/ledger/vendors/accounts/cred-1", nil, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION", suite.decodeError(w).Code)
	suite.mockService.AssertNotCalled(suite.T(), "GetAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockService.On("GetAccount", mock.Anything, domain.KindDebtor, "nope").
		Return(nil, fmt.Errorf("%w: debtor nope", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/debtors/accounts/nope", nil, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.decodeError(w).Code)
}

func (suite *LedgerHandlerTestSuite) TestListAccounts_Paging() {
	suite.mockService.On("ListAccounts", mock.Anything, domain.KindCreditor, 2, 10).Return(&domain.AccountPage{
		Items:      []domain.Account{*sampleCreditor()},
		TotalCount: 21,
		Page:       2,
		Size:       10,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/creditors/accounts?page=2&size=10", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Accounts, 1)
	suite.Equal(3, body.TotalPages)
	suite.Equal(21, body.TotalCount)
}

func (suite *LedgerHandlerTestSuite) TestListAccounts_NegativePage() {
	w := suite.do(http.MethodGet, "/api/v1/ledger/creditors/accounts?page=-1", nil, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_MinorUnitsWithIdempotencyKey() {
	updated := sampleCreditor()
	updated.Balance = 90000
	suite.mockService.On("RecordPayment", mock.Anything, domain.PaymentCommand{
		Kind:           domain.KindCreditor,
		AccountID:      "cred-1",
		Amount:         30000,
		IdempotencyKey: "pay-123",
	}).Return(updated, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/creditors/accounts/cred-1/payments",
		dto.RecordPaymentRequest{AmountMinorUnits: json.RawMessage("30000")},
		map[string]string{handlers.IdempotencyKeyHeader: "pay-123"})

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("900.00", body.Balance.Value)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_DecimalAmountUsesAccountCurrency() {
	debtor := &domain.Account{AccountID: "deb-1", Kind: domain.KindDebtor, CurrencyCode: "USD"}
	suite.mockService.On("GetAccount", mock.Anything, domain.KindDebtor, "deb-1").Return(debtor, nil).Once()
	suite.mockService.On("RecordPayment", mock.Anything, mock.MatchedBy(func(cmd domain.PaymentCommand) bool {
		return cmd.Amount == 75050 && cmd.SaleID == "s1"
	})).Return(debtor, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/debtors/accounts/deb-1/payments",
		dto.RecordPaymentRequest{SaleID: "s1", Amount: "750.50"}, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_ErrorMapping() {
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"invalid amount", apperrors.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"missing sale", apperrors.ErrMissingSaleReference, http.StatusBadRequest, "MISSING_SALE_REFERENCE"},
		{"exceeds", apperrors.ErrAmountExceedsBalance, http.StatusUnprocessableEntity, "AMOUNT_EXCEEDS_BALANCE"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"network", fmt.Errorf("%w: dial tcp: i/o timeout", apperrors.ErrNetworkFailure), http.StatusServiceUnavailable, "NETWORK_FAILURE"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockService.On("RecordPayment", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/ledger/creditors/accounts/cred-1/payments",
				dto.RecordPaymentRequest{AmountMinorUnits: json.RawMessage("100")}, nil)

			suite.Equal(tt.status, w.Code)
			body := suite.decodeError(w)
			suite.Equal(tt.wantCode, body.Code)
			if tt.status >= http.StatusInternalServerError {
				suite.NotContains(body.Error, "timeout")
				suite.NotContains(body.Error, "boom")
			}
		})
	}
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_RejectsAmbiguousAmount() {
	w := suite.do(http.MethodPost, "/api/v1/ledger/creditors/accounts/cred-1/payments",
		dto.RecordPaymentRequest{AmountMinorUnits: json.RawMessage("100"), Amount: "1.00"}, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_MalformedMinorUnits() {
	bodies := map[string]string{
		"string":     `{"amountMinorUnits":"abc"}`,
		"fraction":   `{"amountMinorUnits":12.5}`,
		"exponent":   `{"amountMinorUnits":1e3}`,
		"zero":       `{"amountMinorUnits":0}`,
		"negative":   `{"amountMinorUnits":-100}`,
		"overflow":   `{"amountMinorUnits":99999999999999999999}`,
		"no amount":  `{"saleID":"s1"}`,
		"null":       `{"amountMinorUnits":null}`,
		"bad text":   `{"amount":"abc"}`,
		"neg text":   `{"amount":"-5"}`,
		"zero text":  `{"amount":"0.00"}`,
		"blank text": `{"amount":"  "}`,
	}
	for name, body := range bodies {
		suite.Run(name, func() {
			w := suite.doRaw(http.MethodPost, "/api/v1/ledger/creditors/accounts/nope/payments", body, nil)

			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal("INVALID_AMOUNT", suite.decodeError(w).Code)
		})
	}
	// The amount is checked before the account is looked up.
	suite.mockService.AssertNotCalled(suite.T(), "GetAccount", mock.Anything, mock.Anything, mock.Anything)
	suite.mockService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRecordPayment_IdempotencyKeyTooLong() {
	w := suite.do(http.MethodPost, "/api/v1/ledger/creditors/accounts/cred-1/payments",
		dto.RecordPaymentRequest{AmountMinorUnits: json.RawMessage("100")},
		map[string]string{handlers.IdempotencyKeyHeader: strings.Repeat("x", domain.MaxIdempotencyKeyLength+1)})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION", suite.decodeError(w).Code)
	suite.mockService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGetTotals() {
	suite.mockService.On("GetTotals", mock.Anything, domain.KindDebtor).Return(&domain.LedgerTotals{
		Kind:             domain.KindDebtor,
		OutstandingTotal: 195050,
		OverdueTotal:     120000,
		Count:            2,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/debtors/totals", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.TotalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("1950.50", body.OutstandingTotal.Value)
	suite.Equal("1200.00", body.OverdueTotal.Value)
	suite.Equal(2, body.Count)
}

func (suite *LedgerHandlerTestSuite) TestSearch() {
	suite.mockService.On("Search", mock.Anything, domain.KindCreditor, "steel").
		Return([]domain.Account{*sampleCreditor()}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/creditors/search?q=steel", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body, 1)
}

func (suite *LedgerHandlerTestSuite) TestGetSaleLedger() {
	suite.mockService.On("GetSaleLedger", mock.Anything, true).Return([]domain.Account{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/sale-ledger?debtorsOnly=true", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
}

func (suite *LedgerHandlerTestSuite) TestListPayments() {
	suite.mockService.On("GetAccount", mock.Anything, domain.KindCreditor, "cred-1").Return(sampleCreditor(), nil).Once()
	suite.mockService.On("ListPayments", mock.Anything, domain.KindCreditor, "cred-1").Return([]domain.PaymentEntry{
		{EntryID: "e1", AccountID: "cred-1", Amount: 30000, BalanceAfter: 90000, IdempotencyKey: "k"},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/creditors/accounts/cred-1/payments", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []dto.PaymentEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body, 1)
	suite.Equal("300.00", body[0].Amount.Value)
	suite.Nil(body[0].SaleBalanceAfter)
}

// TestLedgerHandlerTestSuite runs the entire test suite
func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
