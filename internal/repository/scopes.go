package repository

import (
	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

// ownedBy restricts a query to rows visible to o.
func ownedBy(o model.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if o.UserID != nil {
			return db.Where("owner_id = ?", *o.UserID)
		}
		return db.Where("owner_id IS NULL AND access_key = ?", o.AccessKey)
	}
}
