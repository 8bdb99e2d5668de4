package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type LawyerFilter struct {
	Specialization string
	Location       string
	PricingType    string
	// Search matches name, specialization, bio and location with LIKE.
	Search string
	// IDs restricts the result to these lawyers when non-nil.
	IDs []uint
}

type LawyerRepository struct {
	db *gorm.DB
}

func NewLawyerRepository(db *gorm.DB) *LawyerRepository {
	return &LawyerRepository{db: db}
}

func (r *LawyerRepository) List(ctx context.Context, f LawyerFilter) ([]model.Lawyer, error) {
	q := r.db.WithContext(ctx).Model(&model.Lawyer{}).Preload("Languages")
	if f.Specialization != "" {
		q = q.Where("LOWER(specialization) LIKE ?", likePattern(f.Specialization))
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", likePattern(f.Location))
	}
	if f.PricingType != "" {
		q = q.Where("pricing_type = ?", f.PricingType)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(specialization) LIKE ? OR LOWER(bio) LIKE ? OR LOWER(location) LIKE ?", p, p, p, p)
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []model.Lawyer{}, nil
		}
		q = q.Where("id IN ?", f.IDs)
	}

	var lawyers []model.Lawyer
	if err := q.Order("rating DESC").Order("experience_years DESC").Order("id ASC").Find(&lawyers).Error; err != nil {
		return nil, fmt.Errorf("list lawyers failed: %w", err)
	}
	return lawyers, nil
}

func (r *LawyerRepository) GetByID(ctx context.Context, id uint) (*model.Lawyer, error) {
	var lawyer model.Lawyer
	if err := r.db.WithContext(ctx).Preload("Languages").First(&lawyer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lawyer failed: %w", err)
	}
	return &lawyer, nil
}

// Save creates or updates the lawyer and replaces its language set. Unknown
// language names are created on the fly.
func (r *LawyerRepository) Save(ctx context.Context, lawyer *model.Lawyer, languages []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		langs, err := resolveLanguages(tx, languages)
		if err != nil {
			return err
		}
		lawyer.Languages = nil
		if err := tx.Omit("Languages").Save(lawyer).Error; err != nil {
			return err
		}
		if err := tx.Model(lawyer).Association("Languages").Replace(langs); err != nil {
			return err
		}
		lawyer.Languages = langs
		return nil
	})
	if err != nil {
		return fmt.Errorf("save lawyer failed: %w", err)
	}
	return nil
}

func (r *LawyerRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lawyer := model.Lawyer{ID: id}
		if err := tx.Model(&lawyer).Association("Languages").Clear(); err != nil {
			return err
		}
		if err := tx.Where("lawyer_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lawyer{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete lawyer failed: %w", err)
	}
	return nil
}

func (r *LawyerRepository) ListLanguages(ctx context.Context) ([]model.Language, error) {
	var langs []model.Language
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&langs).Error; err != nil {
		return nil, fmt.Errorf("list languages failed: %w", err)
	}
	return langs, nil
}

func resolveLanguages(tx *gorm.DB, names []string) ([]model.Language, error) {
	langs := make([]model.Language, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		var lang model.Language
		if err := tx.Where("LOWER(name) = ?", key).Attrs(model.Language{Name: name}).FirstOrCreate(&lang).Error; err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
