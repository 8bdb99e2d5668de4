package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/repository"
)

func validLawyerInput() LawyerInput {
	return LawyerInput{
		Name:            "Asha Verma",
		Specialization:  "Family Law",
		ExperienceYears: 12,
		Languages:       []string{"Hindi", "English"},
		Location:        "Delhi",
		PricingType:     model.PricingPaid,
	}
}

func TestListUsesSearchIndex(t *testing.T) {
	lawyers, reviews, index := new(MockLawyerStore), new(MockReviewStore), new(MockSearcher)
	svc := NewLawyerService(lawyers, reviews, index)
	ctx := context.Background()

	index.On("Search", "custody", searchLimit).Return([]uint{4, 2}, nil)
	lawyers.On("List", ctx, repository.LawyerFilter{Location: "delhi", IDs: []uint{4, 2}}).
		Return([]model.Lawyer{{ID: 2}, {ID: 4}}, nil)

	got, err := svc.List(ctx, LawyerQuery{Location: " Delhi ", Search: "custody"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	lawyers.AssertExpectations(t)
}

func TestListNoIndexMatchesIsEmpty(t *testing.T) {
	lawyers, index := new(MockLawyerStore), new(MockSearcher)
	svc := NewLawyerService(lawyers, new(MockReviewStore), index)
	ctx := context.Background()

	index.On("Search", "zzz", searchLimit).Return(nil, nil)
	lawyers.On("List", ctx, repository.LawyerFilter{IDs: []uint{}}).Return([]model.Lawyer{}, nil)

	got, err := svc.List(ctx, LawyerQuery{Search: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, got)
	lawyers.AssertExpectations(t)
}

func TestListFallsBackToDatabaseSearch(t *testing.T) {
	lawyers, index := new(MockLawyerStore), new(MockSearcher)
	svc := NewLawyerService(lawyers, new(MockReviewStore), index)
	ctx := context.Background()

	index.On("Search", "Tax", searchLimit).Return(nil, errors.New("index closed"))
	lawyers.On("List", ctx, repository.LawyerFilter{Search: "tax"}).Return([]model.Lawyer{{ID: 1}}, nil)

	got, err := svc.List(ctx, LawyerQuery{Search: "Tax"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	withoutIndex := NewLawyerService(lawyers, new(MockReviewStore), nil)
	_, err = withoutIndex.List(ctx, LawyerQuery{Search: "tax"})
	require.NoError(t, err)
	lawyers.AssertNumberOfCalls(t, "List", 2)
}

func TestListRejectsUnknownPricing(t *testing.T) {
	svc := NewLawyerService(new(MockLawyerStore), new(MockReviewStore), nil)
	_, err := svc.List(context.Background(), LawyerQuery{PricingType: "barter"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateValidatesAndIndexes(t *testing.T) {
	lawyers, index := new(MockLawyerStore), new(MockSearcher)
	svc := NewLawyerService(lawyers, new(MockReviewStore), index)
	ctx := context.Background()

	bad := validLawyerInput()
	bad.Name = ""
	bad.PricingType = "barter"
	_, err := svc.Create(ctx, 3, bad)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name failed required")
	assert.Contains(t, err.Error(), "pricingtype failed oneof")

	hourly := validLawyerInput()
	hourly.PricingType = model.PricingHourly
	_, err = svc.Create(ctx, 3, hourly)
	assert.ErrorIs(t, err, ErrInvalidInput)

	lawyers.On("Save", ctx, mock.AnythingOfType("*model.Lawyer"), []string{"Hindi", "English"}).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Lawyer).ID = 10
	}).Return(nil)
	index.On("Put", mock.AnythingOfType("*model.Lawyer")).Return(nil)

	created, err := svc.Create(ctx, 3, validLawyerInput())
	require.NoError(t, err)
	assert.Equal(t, uint(10), created.ID)
	require.NotNil(t, created.UserID)
	assert.Equal(t, uint(3), *created.UserID)
	index.AssertExpectations(t)
}

func TestUpdateOtherUsersProfileIsForbidden(t *testing.T) {
	lawyers := new(MockLawyerStore)
	svc := NewLawyerService(lawyers, new(MockReviewStore), nil)
	ctx := context.Background()
	owner := uint(5)
	lawyers.On("GetByID", ctx, uint(1)).Return(&model.Lawyer{ID: 1, UserID: &owner}, nil)

	_, err := svc.Update(ctx, 6, 1, validLawyerInput())
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete(ctx, 6, 1)
	assert.ErrorIs(t, err, ErrForbidden)
	lawyers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRemovesFromIndex(t *testing.T) {
	lawyers, index := new(MockLawyerStore), new(MockSearcher)
	svc := NewLawyerService(lawyers, new(MockReviewStore), index)
	ctx := context.Background()
	lawyers.On("GetByID", ctx, uint(2)).Return(&model.Lawyer{ID: 2}, nil)
	lawyers.On("Delete", ctx, uint(2)).Return(nil)
	index.On("Remove", uint(2)).Return(nil)

	require.NoError(t, svc.Delete(ctx, 9, 2))
	index.AssertExpectations(t)
}

func TestAddReview(t *testing.T) {
	lawyers, reviews := new(MockLawyerStore), new(MockReviewStore)
	svc := NewLawyerService(lawyers, reviews, nil)
	ctx := context.Background()
	lawyers.On("GetByID", ctx, uint(1)).Return(&model.Lawyer{ID: 1}, nil)
	lawyers.On("GetByID", ctx, uint(2)).Return(nil, nil)

	_, err := svc.AddReview(ctx, 7, 1, ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddReview(ctx, 7, 2, ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, ErrLawyerNotFound)

	reviews.On("CreateAndRerate", ctx, mock.MatchedBy(func(r *model.Review) bool {
		return r.LawyerID == 1 && r.UserID == 7 && r.Rating == 4 && r.Comment == "Helpful"
	})).Return(nil).Once()
	review, err := svc.AddReview(ctx, 7, 1, ReviewInput{Rating: 4, Comment: " Helpful "})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)

	reviews.On("CreateAndRerate", ctx, mock.Anything).Return(repository.ErrDuplicateReview).Once()
	_, err = svc.AddReview(ctx, 7, 1, ReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrReviewExists)
}
