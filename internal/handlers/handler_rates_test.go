package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/atlasfx/fxrates/internal/dto"
	"github.com/atlasfx/fxrates/internal/handlers"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/atlasfx/fxrates/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) Resolve(ctx context.Context, baseCurrency, targetCurrency string) (*portssvc.Resolution, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.Resolution), args.Error(1)
}

func (m *MockRateService) ListRates(ctx context.Context, baseCurrency, targetCurrency *string, fetchedBefore *time.Time, page, pageSize int) ([]models.RateRecord, int, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency, fetchedBefore, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.RateRecord), args.Int(1), args.Error(2)
}

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, amount decimal.Decimal, baseCurrency, targetCurrency string) (*dto.ConversionResponse, error) {
	args := m.Called(ctx, amount, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConversionResponse), args.Error(1)
}

func (m *MockConversionService) ListConversions(ctx context.Context, page, pageSize int) ([]models.ConversionAudit, int, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.ConversionAudit), args.Int(1), args.Error(2)
}

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockRateSvc *MockRateService
	mockConvSvc *MockConversionService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockRateSvc = new(MockRateService)
	suite.mockConvSvc = new(MockConversionService)

	cfg := &config.Config{
		IsProduction:     true, // skip swagger wiring in tests
		ConversionMargin: decimal.RequireFromString("0.005"),
	}

	suite.router = gin.New()
	handlers.RegisterValidators()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Rate:       suite.mockRateSvc,
		Conversion: suite.mockConvSvc,
	})
}

func (suite *HandlersTestSuite) TestGetLatestRate_Success() {
	suite.mockRateSvc.On("Resolve", mock.Anything, "USD", "NGN").Return(&portssvc.Resolution{
		BaseCurrency:   "USD",
		TargetCurrency: "NGN",
		Rate:           decimal.RequireFromString("1517.7011"),
	}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates/latest?base=usd&target=ngn", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LatestRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp.BaseCurrency)
	suite.Equal("NGN", resp.TargetCurrency)
	suite.True(resp.Rate.Equal(decimal.RequireFromString("1517.7011")))
	suite.True(resp.Margin.Equal(decimal.RequireFromString("0.005")))
}

func (suite *HandlersTestSuite) TestGetLatestRate_NotFound() {
	suite.mockRateSvc.On("Resolve", mock.Anything, "USD", "JPY").
		Return(nil, fmt.Errorf("%w: missing rate leg EUR/JPY", apperrors.ErrNotFound)).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates/latest?base=USD&target=JPY", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)

	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("not_found", body["kind"])
}

func (suite *HandlersTestSuite) TestGetLatestRate_IdenticalPairRejected() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates/latest?base=USD&target=usd", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRateSvc.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestGetLatestRate_BadCurrencyCode() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates/latest?base=US1&target=NGN", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListRates_Success() {
	usd := "USD"
	suite.mockRateSvc.On("ListRates", mock.Anything, mock.Anything, &usd, (*time.Time)(nil), 1, 50).
		Return([]models.RateRecord{
			{RateRecordID: "r1", BaseCurrency: "EUR", TargetCurrency: "USD", RateValue: decimal.RequireFromString("1.0875")},
		}, 1, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates?target=usd", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListRatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Total)
	suite.Require().Len(resp.Rates, 1)
	suite.Equal("USD", resp.Rates[0].TargetCurrency)
}

func (suite *HandlersTestSuite) TestCreateConversion_Success() {
	suite.mockConvSvc.On("Convert", mock.Anything, mock.Anything, "USD", "NGN").
		Return(&dto.ConversionResponse{
			AuditID:        "a1",
			RateRecordID:   "r1",
			BaseCurrency:   "USD",
			TargetCurrency: "NGN",
			InputAmount:    decimal.RequireFromString("100.00"),
			OutputAmount:   decimal.RequireFromString("124375.00"),
		}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/conversions",
		jsonBody(`{"amount": "100.00", "base": "usd", "target": "NGN"}`))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ConversionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("a1", resp.AuditID)
	suite.True(resp.OutputAmount.Equal(decimal.RequireFromString("124375.00")))
}

func (suite *HandlersTestSuite) TestCreateConversion_ValidationError() {
	suite.mockConvSvc.On("Convert", mock.Anything, mock.Anything, "USD", "NGN").
		Return(nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/conversions",
		jsonBody(`{"amount": "-1", "base": "USD", "target": "NGN"}`))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)

	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("validation", body["kind"])
}

func (suite *HandlersTestSuite) TestCreateConversion_IdenticalPairRejected() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/conversions",
		jsonBody(`{"amount": "100.00", "base": "USD", "target": "usd"}`))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConvSvc.AssertNotCalled(suite.T(), "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateConversion_NotFound() {
	suite.mockConvSvc.On("Convert", mock.Anything, mock.Anything, "USD", "JPY").
		Return(nil, fmt.Errorf("%w: missing rate leg EUR/JPY", apperrors.ErrNotFound)).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/conversions",
		jsonBody(`{"amount": "100.00", "base": "USD", "target": "JPY"}`))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
