package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	"github.com/atlasfx/fxrates/internal/core/services"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateRecordRepository ---
type MockRateRecordRepository struct {
	mock.Mock
}

func (m *MockRateRecordRepository) FindLatestRate(ctx context.Context, baseCurrency, targetCurrency string) (*models.RateRecord, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateRecord), args.Error(1)
}

func (m *MockRateRecordRepository) FindRateByID(ctx context.Context, rateRecordID string) (*models.RateRecord, error) {
	args := m.Called(ctx, rateRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateRecord), args.Error(1)
}

func (m *MockRateRecordRepository) ListRates(ctx context.Context, baseCurrency, targetCurrency *string, fetchedBefore *time.Time, page, pageSize int) ([]models.RateRecord, int, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency, fetchedBefore, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.RateRecord), args.Int(1), args.Error(2)
}

func (m *MockRateRecordRepository) InsertRateBatch(ctx context.Context, records []models.RateRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// --- In-memory fake cache ---
// The resolution service normalizes codes before touching the cache, so the
// fake can key naively.
type fakeRateCache struct {
	entries map[string]decimal.Decimal
	puts    int
}

func newFakeRateCache() *fakeRateCache {
	return &fakeRateCache{entries: map[string]decimal.Decimal{}}
}

func (f *fakeRateCache) GetRate(_ context.Context, base, target string) (decimal.Decimal, bool, error) {
	v, ok := f.entries[base+":"+target]
	return v, ok, nil
}

func (f *fakeRateCache) PutRate(_ context.Context, base, target string, rate decimal.Decimal, _ time.Duration) error {
	f.entries[base+":"+target] = rate
	f.puts++
	return nil
}

func rateRecord(base, target, rate string) *models.RateRecord {
	return &models.RateRecord{
		RateRecordID:   uuid.NewString(),
		BaseCurrency:   base,
		TargetCurrency: target,
		RateValue:      decimal.RequireFromString(rate),
		ProviderName:   "TestFX",
		FetchedAt:      time.Now().UTC(),
	}
}

// --- Test Suite ---
type RateResolutionServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRateRecordRepository
	cache    *fakeRateCache
	service  *services.RateResolutionService
}

func (suite *RateResolutionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRateRecordRepository)
	suite.cache = newFakeRateCache()
	suite.service = services.NewRateResolutionService(suite.mockRepo, suite.cache, 65*time.Minute, nil, nil)
}

func (suite *RateResolutionServiceTestSuite) TestResolveDirect_ReturnsStoredRate() {
	ctx := context.Background()
	rec := rateRecord("EUR", "USD", "1.08765432")

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(rec, nil).Once()

	res, err := suite.service.Resolve(ctx, "EUR", "USD")

	suite.Require().NoError(err)
	suite.True(res.Rate.Equal(rec.RateValue))
	suite.False(res.FromCache)
	suite.Require().NotNil(res.TerminalRecord)
	suite.Equal(rec.RateRecordID, res.TerminalRecord.RateRecordID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateResolutionServiceTestSuite) TestResolve_SecondCallServedFromCache() {
	ctx := context.Background()
	rec := rateRecord("EUR", "USD", "1.0875")

	// Exactly one store read; a second one would fail the mock expectation.
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(rec, nil).Once()

	first, err := suite.service.Resolve(ctx, "EUR", "USD")
	suite.Require().NoError(err)

	second, err := suite.service.Resolve(ctx, "EUR", "USD")
	suite.Require().NoError(err)

	suite.True(second.FromCache)
	suite.True(first.Rate.Equal(second.Rate))
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "FindLatestRate", 1)
}

func (suite *RateResolutionServiceTestSuite) TestResolvePivot_ComputesCrossRate() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(rateRecord("EUR", "USD", "2"), nil).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "JPY").Return(rateRecord("EUR", "JPY", "300"), nil).Once()

	res, err := suite.service.Resolve(ctx, "USD", "JPY")

	suite.Require().NoError(err)
	suite.True(res.Rate.Equal(decimal.RequireFromString("150")), "got %s", res.Rate)
	suite.Require().NotNil(res.TerminalRecord)
	suite.Equal("JPY", res.TerminalRecord.TargetCurrency)
}

func (suite *RateResolutionServiceTestSuite) TestResolvePivot_RoundsHalfUpToFourPlaces() {
	ctx := context.Background()

	// (1/2) * 1.25551 = 0.627755 -> 0.6278 after half-up rounding.
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "AAA").Return(rateRecord("EUR", "AAA", "2"), nil).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "BBB").Return(rateRecord("EUR", "BBB", "1.25551"), nil).Once()

	res, err := suite.service.Resolve(ctx, "AAA", "BBB")

	suite.Require().NoError(err)
	suite.True(res.Rate.Equal(decimal.RequireFromString("0.6278")), "got %s", res.Rate)
}

func (suite *RateResolutionServiceTestSuite) TestResolvePivot_TruncatesRepeatingFraction() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "AAA").Return(rateRecord("EUR", "AAA", "3"), nil).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "BBB").Return(rateRecord("EUR", "BBB", "1"), nil).Once()

	res, err := suite.service.Resolve(ctx, "AAA", "BBB")

	suite.Require().NoError(err)
	suite.True(res.Rate.Equal(decimal.RequireFromString("0.3333")), "got %s", res.Rate)
}

func (suite *RateResolutionServiceTestSuite) TestResolvePivot_MissingTargetLegNamed() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(rateRecord("EUR", "USD", "1.0875"), nil).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "JPY").
		Return(nil, fmt.Errorf("%w: no rate record for EUR/JPY", apperrors.ErrNotFound)).Once()

	_, err := suite.service.Resolve(ctx, "USD", "JPY")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "EUR/JPY")
	suite.NotContains(err.Error(), "EUR/USD")
	suite.Equal(0, suite.cache.puts, "a failed resolution must not be cached")
}

func (suite *RateResolutionServiceTestSuite) TestResolvePivot_MissingBaseLegNamed() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").
		Return(nil, fmt.Errorf("%w: no rate record for EUR/USD", apperrors.ErrNotFound)).Once()

	_, err := suite.service.Resolve(ctx, "USD", "JPY")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "EUR/USD")
	// The target leg is never queried once the base leg is known missing.
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "FindLatestRate", 1)
}

func (suite *RateResolutionServiceTestSuite) TestResolve_StorageFaultDegradesToNotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").
		Return(nil, fmt.Errorf("%w: connection refused", apperrors.ErrStorage)).Once()

	_, err := suite.service.Resolve(ctx, "EUR", "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.NotErrorIs(err, apperrors.ErrStorage, "storage internals must not leak to the caller")
}

func (suite *RateResolutionServiceTestSuite) TestResolve_CaseInsensitiveCacheKeys() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(rateRecord("EUR", "USD", "2"), nil).Once()
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "NGN").Return(rateRecord("EUR", "NGN", "1650.50"), nil).Once()

	lower, err := suite.service.Resolve(ctx, "usd", "ngn")
	suite.Require().NoError(err)

	upper, err := suite.service.Resolve(ctx, "USD", "NGN")
	suite.Require().NoError(err)

	suite.True(upper.FromCache, "usd/ngn and USD/NGN must share one cache entry")
	suite.True(lower.Rate.Equal(upper.Rate))
	suite.Equal("USD", lower.BaseCurrency)
	suite.Equal("NGN", lower.TargetCurrency)
}

func (suite *RateResolutionServiceTestSuite) TestResolve_NoNegativeCaching() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").
		Return(nil, fmt.Errorf("%w: no rate record for EUR/USD", apperrors.ErrNotFound)).Once()

	_, err := suite.service.Resolve(ctx, "EUR", "USD")
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)

	// Data arrives (e.g. an ingestion run completed); the next call must see it.
	rec := rateRecord("EUR", "USD", "1.0875")
	suite.mockRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(rec, nil).Once()

	res, err := suite.service.Resolve(ctx, "EUR", "USD")
	suite.Require().NoError(err)
	suite.True(res.Rate.Equal(rec.RateValue))
	suite.False(res.FromCache)
}

func TestRateResolutionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateResolutionServiceTestSuite))
}
