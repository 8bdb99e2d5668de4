package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/repository"
)

var (
	ErrLawyerNotFound = errors.New("lawyer not found")
	ErrReviewExists   = errors.New("you have already reviewed this lawyer")
	ErrForbidden      = errors.New("not allowed to modify this resource")
)

const searchLimit = 100

type LawyerQuery struct {
	Specialization string
	Location       string
	PricingType    string
	Search         string
}

type LawyerInput struct {
	Name            string   `json:"name" validate:"required,max=128"`
	Specialization  string   `json:"specialization" validate:"required,max=128"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0,lte=80"`
	Languages       []string `json:"languages" validate:"dive,required,max=64"`
	Location        string   `json:"location" validate:"required,max=128"`
	PricingType     string   `json:"pricing_type" validate:"required,oneof=free_consultation paid hourly"`
	HourlyRate      *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	Bio             string   `json:"bio" validate:"max=5000"`
	ProfileImage    string   `json:"profile_image" validate:"omitempty,max=512"`
	IsVerified      bool     `json:"is_verified"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type LawyerService struct {
	lawyers  LawyerStore
	reviews  ReviewStore
	index    LawyerSearcher
	validate *validator.Validate
}

// NewLawyerService builds the directory service. index may be nil, in which
// case search falls back to database LIKE matching.
func NewLawyerService(lawyers LawyerStore, reviews ReviewStore, index LawyerSearcher) *LawyerService {
	return &LawyerService{
		lawyers:  lawyers,
		reviews:  reviews,
		index:    index,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *LawyerService) List(ctx context.Context, q LawyerQuery) ([]model.Lawyer, error) {
	f := repository.LawyerFilter{
		Specialization: strings.ToLower(strings.TrimSpace(q.Specialization)),
		Location:       strings.ToLower(strings.TrimSpace(q.Location)),
		PricingType:    strings.TrimSpace(q.PricingType),
	}
	if f.PricingType != "" && !validPricing(f.PricingType) {
		return nil, fmt.Errorf("%w: unknown pricing type %q", ErrInvalidInput, f.PricingType)
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		f.IDs, f.Search = s.searchIDs(ctx, search)
	}
	return s.lawyers.List(ctx, f)
}

// searchIDs asks the index for matches. When the index is missing or fails
// the raw term is returned for LIKE matching instead.
func (s *LawyerService) searchIDs(ctx context.Context, term string) ([]uint, string) {
	if s.index == nil {
		return nil, strings.ToLower(term)
	}
	ids, err := s.index.Search(term, searchLimit)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("term", term).Msg("lawyer index search failed, using database")
		return nil, strings.ToLower(term)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, ""
}

func (s *LawyerService) Get(ctx context.Context, id uint) (*model.Lawyer, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	lawyer, err := s.lawyers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, ErrLawyerNotFound
	}
	return lawyer, nil
}

// Create registers a lawyer profile linked to the calling user.
func (s *LawyerService) Create(ctx context.Context, userID uint, in LawyerInput) (*model.Lawyer, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if err := s.checkLawyer(in); err != nil {
		return nil, err
	}
	lawyer := &model.Lawyer{UserID: &userID}
	in.applyTo(lawyer)
	if err := s.lawyers.Save(ctx, lawyer, in.Languages); err != nil {
		return nil, err
	}
	s.reindex(ctx, lawyer)
	return lawyer, nil
}

// Update replaces a profile. Profiles linked to a user can only be changed
// by that user.
func (s *LawyerService) Update(ctx context.Context, userID, id uint, in LawyerInput) (*model.Lawyer, error) {
	lawyer, err := s.editable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkLawyer(in); err != nil {
		return nil, err
	}
	in.applyTo(lawyer)
	if err := s.lawyers.Save(ctx, lawyer, in.Languages); err != nil {
		return nil, err
	}
	s.reindex(ctx, lawyer)
	return lawyer, nil
}

func (s *LawyerService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.editable(ctx, userID, id); err != nil {
		return err
	}
	if err := s.lawyers.Delete(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Remove(id); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Uint("lawyer_id", id).Msg("remove lawyer from index failed")
		}
	}
	return nil
}

func (s *LawyerService) Languages(ctx context.Context) ([]model.Language, error) {
	return s.lawyers.ListLanguages(ctx)
}

func (s *LawyerService) ListReviews(ctx context.Context, lawyerID uint) ([]model.Review, error) {
	if _, err := s.Get(ctx, lawyerID); err != nil {
		return nil, err
	}
	return s.reviews.ListByLawyer(ctx, lawyerID)
}

// AddReview stores one review per user and lawyer and refreshes the
// lawyer's rating.
func (s *LawyerService) AddReview(ctx context.Context, userID, lawyerID uint, in ReviewInput) (*model.Review, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, lawyerID); err != nil {
		return nil, err
	}

	review := &model.Review{
		LawyerID: lawyerID,
		UserID:   userID,
		Rating:   in.Rating,
		Comment:  strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.CreateAndRerate(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	return review, nil
}

func (s *LawyerService) editable(ctx context.Context, userID, id uint) (*model.Lawyer, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	lawyer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lawyer.UserID != nil && *lawyer.UserID != userID {
		return nil, ErrForbidden
	}
	return lawyer, nil
}

func (s *LawyerService) reindex(ctx context.Context, lawyer *model.Lawyer) {
	if s.index == nil {
		return
	}
	if err := s.index.Put(lawyer); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Uint("lawyer_id", lawyer.ID).Msg("index lawyer failed")
	}
}

func (s *LawyerService) checkLawyer(in LawyerInput) error {
	if err := s.check(in); err != nil {
		return err
	}
	if in.PricingType == model.PricingHourly && in.HourlyRate == nil {
		return fmt.Errorf("%w: hourly_rate is required for hourly pricing", ErrInvalidInput)
	}
	return nil
}

func (s *LawyerService) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(parts, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (in LawyerInput) applyTo(l *model.Lawyer) {
	l.Name = strings.TrimSpace(in.Name)
	l.Specialization = strings.TrimSpace(in.Specialization)
	l.ExperienceYears = in.ExperienceYears
	l.Location = strings.TrimSpace(in.Location)
	l.PricingType = in.PricingType
	l.HourlyRate = in.HourlyRate
	l.Bio = strings.TrimSpace(in.Bio)
	l.ProfileImage = strings.TrimSpace(in.ProfileImage)
	l.IsVerified = in.IsVerified
}

func validPricing(p string) bool {
	switch p {
	case model.PricingFreeConsultation, model.PricingPaid, model.PricingHourly:
		return true
	}
	return false
}
