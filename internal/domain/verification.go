package domain

import "time"

// EmailVerification tracks signup verification codes, keyed by email.
// Rows are upserted on each request and never physically deleted;
// expiry is purely a timestamp comparison.
type EmailVerification struct {
	Email     string    `gorm:"column:email;primaryKey;size:255" json:"email"`
	Code      string    `gorm:"column:code;size:8" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	Verified  bool      `gorm:"column:verified;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

// Expired reports whether the code is past its expiry at the given time
func (v *EmailVerification) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}

// SendCodeRequest requests a verification code mail
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyEmailRequest submits a verification code
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}
