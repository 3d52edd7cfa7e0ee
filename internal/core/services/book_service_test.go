package services_test

import (
	"context"
	"testing"

	"github.com/fintrackd/fintrack_app/internal/apperrors"
	"github.com/fintrackd/fintrack_app/internal/core/domain"
	portssvc "github.com/fintrackd/fintrack_app/internal/core/ports/services"
	"github.com/fintrackd/fintrack_app/internal/core/services"
	"github.com/fintrackd/fintrack_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type BookServiceTestSuite struct {
	suite.Suite
	mockBookRepo     *MockBookRepository
	mockEntryRepo    *MockEntryRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockProvider     *MockRateProvider
	mockSettings     *MockSettingsService
	service          portssvc.BookSvcFacade
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.mockBookRepo = new(MockBookRepository)
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockProvider = new(MockRateProvider)
	suite.mockSettings = new(MockSettingsService)
	fx := services.NewFxService(suite.mockProvider)
	suite.service = services.NewBookService(
		suite.mockBookRepo, suite.mockEntryRepo, suite.mockCurrencyRepo,
		fx, suite.mockSettings, nil,
	)
}

// --- Test Cases ---

func (suite *BookServiceTestSuite) TestCreateBook_LocksRateAtCreation() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockProvider.On("GetRate", ctx, "EUR", "USD", "").Return(1.1, nil).Once()
	suite.mockBookRepo.On("SaveBook", ctx, mock.MatchedBy(func(b domain.Book) bool {
		return b.CurrencyCode == "EUR" &&
			b.LockedRate != nil && *b.LockedRate == 1.1 &&
			b.TargetCurrencyCode == "USD" &&
			b.RateLockedAt != nil
	})).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Name: "Trip", CurrencyCode: "EUR"})

	suite.Require().NoError(err)
	suite.Require().NotNil(book.LockedRate)
	suite.Equal(1.1, *book.LockedRate)
	suite.mockBookRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestCreateBook_SameCurrencyNeedsNoLock() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockBookRepo.On("SaveBook", ctx, mock.MatchedBy(func(b domain.Book) bool {
		return b.LockedRate == nil && b.TargetCurrencyCode == ""
	})).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Name: "Daily", CurrencyCode: "USD"})

	suite.Require().NoError(err)
	suite.Nil(book.LockedRate)
	suite.mockProvider.AssertNotCalled(suite.T(), "GetRate")
}

func (suite *BookServiceTestSuite) TestCreateBook_ProviderDown_CreatedWithoutLock() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockProvider.On("GetRate", ctx, "EUR", "USD", "").Return(0.0, apperrors.ErrRateUnavailable).Once()
	suite.mockBookRepo.On("SaveBook", ctx, mock.AnythingOfType("domain.Book")).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Name: "Trip", CurrencyCode: "EUR"})

	suite.Require().NoError(err)
	suite.Nil(book.LockedRate)
}

func (suite *BookServiceTestSuite) TestCreateBook_UnknownCurrency() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Name: "Bad", CurrencyCode: "XXX"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "SaveBook")
}

func (suite *BookServiceTestSuite) TestLockRate_RejectsUnusableRate() {
	ctx := context.Background()

	_, err := suite.service.LockRate(ctx, "b1", dto.LockRateRequest{Rate: floatPtr(0.0)})

	suite.ErrorIs(err, apperrors.ErrInvalidRate)
}

func (suite *BookServiceTestSuite) TestLockRate_SameCurrencyBookRejected() {
	ctx := context.Background()
	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(&domain.Book{BookID: "b1", CurrencyCode: "USD"}, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()

	_, err := suite.service.LockRate(ctx, "b1", dto.LockRateRequest{Rate: floatPtr(1.2)})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BookServiceTestSuite) TestLockRate_DeviationRequiresConfirmation() {
	ctx := context.Background()
	book := lockedBook("b1", "EUR", 1.1, "USD")
	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(book, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockProvider.On("GetRate", ctx, "EUR", "USD", "b1").Return(1.1, nil).Once()

	// 2.0 vs 1.1 is an 82% deviation, far over the 10% threshold.
	_, err := suite.service.LockRate(ctx, "b1", dto.LockRateRequest{Rate: floatPtr(2.0)})

	suite.ErrorIs(err, apperrors.ErrRateDeviation)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "UpdateBook")
}

func (suite *BookServiceTestSuite) TestLockRate_ConfirmedDeviationAccepted() {
	ctx := context.Background()
	book := lockedBook("b1", "EUR", 1.1, "USD")
	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(book, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockBookRepo.On("UpdateBook", ctx, mock.MatchedBy(func(b domain.Book) bool {
		return b.LockedRate != nil && *b.LockedRate == 2.0 && b.TargetCurrencyCode == "USD"
	})).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntriesByBookID", ctx, "b1").Return([]domain.Entry{}, nil).Once()

	updated, err := suite.service.LockRate(ctx, "b1", dto.LockRateRequest{Rate: floatPtr(2.0), Confirmed: true})

	suite.Require().NoError(err)
	suite.Equal(2.0, *updated.LockedRate)
	// Confirmed: no deviation check against the provider.
	suite.mockProvider.AssertNotCalled(suite.T(), "GetRate")
}

func (suite *BookServiceTestSuite) TestLockRate_RenormalizesEntries() {
	ctx := context.Background()
	book := lockedBook("b1", "EUR", 1.1, "USD")
	entries := []domain.Entry{
		{EntryID: "e1", BookID: "b1", Amount: 100.0, CurrencyCode: "EUR",
			Normalized: &domain.Normalization{Amount: 110.0, Rate: 1.1, CurrencyCode: "USD"}},
	}

	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(book, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockProvider.On("GetRate", ctx, "EUR", "USD", "b1").Return(1.18, nil).Once()
	suite.mockBookRepo.On("UpdateBook", ctx, mock.AnythingOfType("domain.Book")).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntriesByBookID", ctx, "b1").Return(entries, nil).Once()
	suite.mockEntryRepo.On("UpdateEntry", ctx, mock.MatchedBy(func(e domain.Entry) bool {
		return e.EntryID == "e1" &&
			e.Normalized != nil &&
			e.Normalized.Rate == 1.2 &&
			e.Normalized.Amount == 120.0
	})).Return(nil).Once()

	_, err := suite.service.LockRate(ctx, "b1", dto.LockRateRequest{Rate: floatPtr(1.2)})

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestChangeCurrency_SameCodeRejected() {
	ctx := context.Background()
	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(&domain.Book{BookID: "b1", CurrencyCode: "EUR"}, nil).Once()

	_, err := suite.service.ChangeCurrency(ctx, "b1", dto.ChangeCurrencyRequest{CurrencyCode: "EUR"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BookServiceTestSuite) TestChangeCurrency_RefreshesLock() {
	ctx := context.Background()
	book := lockedBook("b1", "EUR", 1.1, "USD")
	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(book, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "GBP").Return(&domain.Currency{CurrencyCode: "GBP"}, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockProvider.On("GetRate", ctx, "GBP", "USD", "b1").Return(1.25, nil).Once()
	suite.mockBookRepo.On("UpdateBook", ctx, mock.MatchedBy(func(b domain.Book) bool {
		return b.CurrencyCode == "GBP" &&
			b.LockedRate != nil && *b.LockedRate == 1.25 &&
			b.TargetCurrencyCode == "USD"
	})).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntriesByBookID", ctx, "b1").Return([]domain.Entry{}, nil).Once()

	updated, err := suite.service.ChangeCurrency(ctx, "b1", dto.ChangeCurrencyRequest{CurrencyCode: "GBP"})

	suite.Require().NoError(err)
	suite.Equal("GBP", updated.CurrencyCode)
	suite.Equal(1.25, *updated.LockedRate)
}

func (suite *BookServiceTestSuite) TestChangeCurrency_ManualRateUsedAsLock() {
	ctx := context.Background()
	book := lockedBook("b1", "EUR", 1.1, "USD")
	suite.mockBookRepo.On("FindBookByID", ctx, "b1").Return(book, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "INR").Return(&domain.Currency{CurrencyCode: "INR"}, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockBookRepo.On("UpdateBook", ctx, mock.MatchedBy(func(b domain.Book) bool {
		return b.CurrencyCode == "INR" && b.LockedRate != nil && *b.LockedRate == 0.012
	})).Return(nil).Once()
	suite.mockEntryRepo.On("FindEntriesByBookID", ctx, "b1").Return([]domain.Entry{}, nil).Once()

	_, err := suite.service.ChangeCurrency(ctx, "b1", dto.ChangeCurrencyRequest{CurrencyCode: "INR", Rate: floatPtr(0.012)})

	suite.Require().NoError(err)
	suite.mockProvider.AssertNotCalled(suite.T(), "GetRate")
}

func TestBookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}
