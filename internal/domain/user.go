package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// User carries the identity slice the booking core reads plus the wallet
// balance it owns. Password, OTP and token state live in the identity
// service and never reach this table.
type User struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"not null"`
	Email         string          `json:"email" gorm:"not null;uniqueIndex"`
	Role          Role            `json:"role" gorm:"type:varchar(16);not null;index"`
	WalletBalance decimal.Decimal `json:"wallet_balance" gorm:"type:numeric;not null;default:0"`
	PushToken     string          `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TutorProfile is the role extension for tutor users: pricing, aggregate
// rating and lifetime earnings. One row per tutor.
type TutorProfile struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	UserID        int64           `json:"user_id" gorm:"not null;uniqueIndex"`
	TutorFee      decimal.Decimal `json:"tutor_fee" gorm:"type:numeric;not null;default:0"`
	AdminFee      decimal.Decimal `json:"admin_fee" gorm:"type:numeric;not null;default:0"`
	Rating        float64         `json:"rating" gorm:"not null;default:0"`
	TotalRatings  int64           `json:"total_ratings" gorm:"not null;default:0"`
	TotalEarnings decimal.Decimal `json:"total_earnings" gorm:"type:numeric;not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (TutorProfile) TableName() string { return "tutor_profiles" }

// TotalFee is the per-session price for a 1:1 booking.
func (p *TutorProfile) TotalFee() decimal.Decimal {
	return p.TutorFee.Add(p.AdminFee)
}

// HasCustomFees reports whether the tutor's economics were configured by
// an admin; when false the default 80/20 split applies.
func (p *TutorProfile) HasCustomFees() bool {
	return p.TotalFee().IsPositive()
}

// AvailabilityRule is one entry of a tutor's recurring weekly template.
// Times are the 12-hour clock strings the mobile clients submit.
type AvailabilityRule struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	TutorID  int64  `json:"tutor_id" gorm:"not null;index"`
	Day      string `json:"day" gorm:"type:varchar(16);not null"`
	From     string `json:"from" gorm:"column:from_time;type:varchar(8);not null"`
	To       string `json:"to" gorm:"column:to_time;type:varchar(8);not null"`
	AmpmFrom string `json:"ampm_from" gorm:"type:varchar(2);not null"`
	AmpmTo   string `json:"ampm_to" gorm:"type:varchar(2);not null"`
	Active   bool   `json:"active" gorm:"not null;default:true"`
}

func (AvailabilityRule) TableName() string { return "availability_rules" }
