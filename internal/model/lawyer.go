package model

import "time"

const (
	PricingFreeConsultation = "free_consultation"
	PricingPaid             = "paid"
	PricingHourly           = "hourly"
)

type Language struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;not null;uniqueIndex" json:"name"`
}

type Lawyer struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          *uint      `gorm:"uniqueIndex" json:"user_id,omitempty"`
	Name            string     `gorm:"size:128;not null" json:"name"`
	Specialization  string     `gorm:"size:128;not null;index" json:"specialization"`
	ExperienceYears int        `gorm:"not null;default:0" json:"experience_years"`
	Languages       []Language `gorm:"many2many:lawyer_languages;" json:"languages"`
	Location        string     `gorm:"size:128;not null;index" json:"location"`
	PricingType     string     `gorm:"size:32;not null;default:paid" json:"pricing_type"`
	HourlyRate      *float64   `json:"hourly_rate,omitempty"`
	Rating          float64    `gorm:"not null;default:0" json:"rating"`
	TotalReviews    int        `gorm:"not null;default:0" json:"total_reviews"`
	Bio             string     `gorm:"type:text" json:"bio"`
	ProfileImage    string     `gorm:"size:512" json:"profile_image,omitempty"`
	IsVerified      bool       `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LawyerID  uint      `gorm:"not null;uniqueIndex:idx_review_lawyer_user,priority:1" json:"lawyer_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_lawyer_user,priority:2" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
