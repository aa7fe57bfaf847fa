package domain

import "time"

// OAuthProvider identifies an external login provider
type OAuthProvider string

const (
	OAuthProviderGoogle OAuthProvider = "google"
	OAuthProviderKakao  OAuthProvider = "kakao"
)

// User represents a registered account. Password is empty for OAuth-only
// accounts. PublicID is the opaque identifier exposed outside the API.
type User struct {
	ID              uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PublicID        string        `gorm:"column:public_id;uniqueIndex;size:36" json:"public_id"`
	Email           string        `gorm:"column:email;uniqueIndex;size:255" json:"email"`
	Nickname        string        `gorm:"column:nickname;uniqueIndex;size:50" json:"nickname"`
	Password        string        `gorm:"column:password;size:100" json:"-"`
	ProfileImageURL string        `gorm:"column:profile_image_url;size:512" json:"profile_image_url,omitempty"`
	Provider        OAuthProvider `gorm:"column:provider;size:16" json:"provider,omitempty"`
	ProviderUID     string        `gorm:"column:provider_uid;size:128;index" json:"-"`
	RefreshToken    string        `gorm:"column:refresh_token;size:512" json:"-"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RegisterRequest signup payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nickname string `json:"nickname" binding:"required,max=20"`
}

// LoginRequest login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is a user in API responses (never includes password)
type UserResponse struct {
	ID              uint64    `json:"id"`
	PublicID        string    `json:"public_id"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		PublicID:        u.PublicID,
		Email:           u.Email,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is returned after login, refresh, or OAuth callback
type LoginResponse struct {
	User *UserResponse `json:"user"`
	TokenPair
	IsNewUser bool `json:"is_new_user,omitempty"`
}

// OAuthUserInfo represents user info retrieved from an OAuth provider
type OAuthUserInfo struct {
	Provider     OAuthProvider `json:"provider"`
	ProviderUID  string        `json:"provider_uid"`
	Email        string        `json:"email"`
	Nickname     string        `json:"nickname"`
	ProfileImage string        `json:"profile_image"`
}
