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
type TransferServiceTestSuite struct {
	suite.Suite
	mockEntryRepo *MockEntryRepository
	mockBookRepo  *MockBookRepository
	mockProvider  *MockRateProvider
	mockSettings  *MockSettingsService
	service       portssvc.TransferSvcFacade
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockBookRepo = new(MockBookRepository)
	suite.mockProvider = new(MockRateProvider)
	suite.mockSettings = new(MockSettingsService)
	fx := services.NewFxService(suite.mockProvider)
	suite.service = services.NewTransferService(suite.mockEntryRepo, suite.mockBookRepo, fx, suite.mockSettings, nil)
}

func floatPtr(f float64) *float64 { return &f }

// --- Test Cases ---

func (suite *TransferServiceTestSuite) TestTransfer_EmptySelection() {
	req := dto.TransferRequest{
		EntryIDs:     []string{},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "MOVE",
		Rate:         floatPtr(1.0),
	}

	_, err := suite.service.Transfer(context.Background(), req)

	suite.ErrorIs(err, apperrors.ErrNoSelection)
}

func (suite *TransferServiceTestSuite) TestTransfer_SameBookRejected() {
	req := dto.TransferRequest{
		EntryIDs:     []string{"e1"},
		SourceBookID: "src",
		TargetBookID: "src",
		Mode:         "MOVE",
		Rate:         floatPtr(1.0),
	}

	_, err := suite.service.Transfer(context.Background(), req)

	suite.ErrorIs(err, apperrors.ErrSameBookTransfer)
}

func (suite *TransferServiceTestSuite) TestTransfer_MissingRateRejected() {
	req := dto.TransferRequest{
		EntryIDs:     []string{"e1"},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "MOVE",
	}

	_, err := suite.service.Transfer(context.Background(), req)

	suite.ErrorIs(err, apperrors.ErrInvalidRate)
}

func (suite *TransferServiceTestSuite) TestTransfer_SameCurrencyRequiresRateOne() {
	ctx := context.Background()
	suite.mockBookRepo.On("FindBookByID", ctx, "src").Return(&domain.Book{BookID: "src", CurrencyCode: "USD"}, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, "dst").Return(&domain.Book{BookID: "dst", CurrencyCode: "USD"}, nil).Once()

	req := dto.TransferRequest{
		EntryIDs:     []string{"e1"},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "MOVE",
		Rate:         floatPtr(83.0),
	}

	_, err := suite.service.Transfer(ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestTransfer_UnusableRateRejected() {
	ctx := context.Background()
	suite.mockBookRepo.On("FindBookByID", ctx, "src").Return(&domain.Book{BookID: "src", CurrencyCode: "USD"}, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, "dst").Return(&domain.Book{BookID: "dst", CurrencyCode: "INR"}, nil).Once()

	req := dto.TransferRequest{
		EntryIDs:     []string{"e1"},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "MOVE",
		Rate:         floatPtr(-5.0),
	}

	_, err := suite.service.Transfer(ctx, req)

	suite.ErrorIs(err, apperrors.ErrInvalidRate)
}

func (suite *TransferServiceTestSuite) TestTransfer_MoveConvertsAmountAndCurrency() {
	ctx := context.Background()
	source := &domain.Book{BookID: "src", CurrencyCode: "USD"}
	target := &domain.Book{BookID: "dst", CurrencyCode: "INR"}
	entry := &domain.Entry{EntryID: "e1", BookID: "src", Amount: 10.0, CurrencyCode: "USD"}

	suite.mockBookRepo.On("FindBookByID", ctx, "src").Return(source, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, "dst").Return(target, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("INR", nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, "e1").Return(entry, nil).Once()
	suite.mockEntryRepo.On("UpdateEntry", ctx, mock.MatchedBy(func(e domain.Entry) bool {
		return e.EntryID == "e1" &&
			e.BookID == "dst" &&
			e.Amount == 830.0 &&
			e.CurrencyCode == "INR" &&
			e.Normalized != nil &&
			e.Normalized.Rate == 1.0 &&
			e.Normalized.Amount == 830.0
	})).Return(nil).Once()

	req := dto.TransferRequest{
		EntryIDs:     []string{"e1"},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "MOVE",
		Rate:         floatPtr(83.0),
	}

	result, err := suite.service.Transfer(ctx, req)

	suite.Require().NoError(err)
	suite.Equal([]string{"e1"}, result.Succeeded)
	suite.Empty(result.Failed)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_CopyLeavesSourceUntouched() {
	ctx := context.Background()
	source := &domain.Book{BookID: "src", CurrencyCode: "USD"}
	target := &domain.Book{BookID: "dst", CurrencyCode: "USD"}
	entry := &domain.Entry{EntryID: "e1", BookID: "src", Amount: 25.0, CurrencyCode: "USD", Notes: "lunch"}

	suite.mockBookRepo.On("FindBookByID", ctx, "src").Return(source, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, "dst").Return(target, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, "e1").Return(entry, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.MatchedBy(func(e domain.Entry) bool {
		return e.EntryID != "e1" &&
			e.BookID == "dst" &&
			e.Amount == 25.0 &&
			e.Notes == "lunch"
	})).Return(nil).Once()

	req := dto.TransferRequest{
		EntryIDs:     []string{"e1"},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "COPY",
		Rate:         floatPtr(1.0),
	}

	result, err := suite.service.Transfer(ctx, req)

	suite.Require().NoError(err)
	suite.Equal([]string{"e1"}, result.Succeeded)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntry")
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_PartialFailureReported() {
	ctx := context.Background()
	source := &domain.Book{BookID: "src", CurrencyCode: "USD"}
	target := &domain.Book{BookID: "dst", CurrencyCode: "USD"}
	good := &domain.Entry{EntryID: "e1", BookID: "src", Amount: 10.0, CurrencyCode: "USD"}
	foreign := &domain.Entry{EntryID: "e2", BookID: "other", Amount: 20.0, CurrencyCode: "USD"}

	suite.mockBookRepo.On("FindBookByID", ctx, "src").Return(source, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, "dst").Return(target, nil).Once()
	suite.mockSettings.On("GetDefaultCurrency", ctx).Return("USD", nil).Once()
	suite.mockEntryRepo.On("FindEntryByID", ctx, "e1").Return(good, nil).Once()
	suite.mockEntryRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.Entry")).Return(nil).Once()
	// e2 belongs to another book and must fail without aborting the batch.
	suite.mockEntryRepo.On("FindEntryByID", ctx, "e2").Return(foreign, nil).Once()

	req := dto.TransferRequest{
		EntryIDs:     []string{"e1", "e2"},
		SourceBookID: "src",
		TargetBookID: "dst",
		Mode:         "MOVE",
		Rate:         floatPtr(1.0),
	}

	result, err := suite.service.Transfer(ctx, req)

	suite.Require().NotNil(result)
	suite.Equal([]string{"e1"}, result.Succeeded)
	suite.Require().Len(result.Failed, 1)
	suite.Equal("e2", result.Failed[0].EntryID)

	var partial *apperrors.PartialBatchError
	suite.Require().ErrorAs(err, &partial)
	suite.Equal([]string{"e1"}, partial.Succeeded)
	suite.Len(partial.Failed, 1)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
