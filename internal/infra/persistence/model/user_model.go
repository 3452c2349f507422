package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. (email, user_type) is unique.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_type"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Mobile       string    `gorm:"type:varchar(20)"`
	UserType     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_email_type"`
	Address      string    `gorm:"type:text"`
	KisanCard    string    `gorm:"type:varchar(50)"`
	FarmerID     string    `gorm:"type:varchar(50)"`
	Verified     bool      `gorm:"not null;default:false"`

	Bank     BankDetailsModel `gorm:"embedded;embeddedPrefix:bank_"`
	Stats    SellerStatsModel `gorm:"embedded"`
	Settings SettingsModel    `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BankDetailsModel is embedded in users with the bank_ column prefix.
type BankDetailsModel struct {
	AccountHolder string `gorm:"type:varchar(100)"`
	AccountNumber string `gorm:"type:varchar(34)"`
	IFSC          string `gorm:"column:ifsc;type:varchar(11)"`
	BankName      string `gorm:"type:varchar(100)"`
	UPIID         string `gorm:"column:upi_id;type:varchar(100)"`
}

// SellerStatsModel holds the seller counters maintained by the order workflow.
type SellerStatsModel struct {
	ListedItems   int     `gorm:"not null;default:0"`
	MonthlyIncome float64 `gorm:"type:numeric(14,2);not null;default:0"`
	BuyersCount   int     `gorm:"not null;default:0"`
	QuantitySold  int     `gorm:"not null;default:0"`
}

// SettingsModel holds the notification and language preferences.
type SettingsModel struct {
	EmailNotifications bool   `gorm:"not null;default:true"`
	PushNotifications  bool   `gorm:"not null;default:true"`
	OrderUpdates       bool   `gorm:"not null;default:true"`
	Language           string `gorm:"type:varchar(10);not null;default:'en'"`
}

// ProfileModel mirrors the 'profiles' table. UserID references users.id (UUID).
type ProfileModel struct {
	UserID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Bio                  string    `gorm:"type:text"`
	AvatarURL            string    `gorm:"type:varchar(500)"`
	CompletionPercentage int       `gorm:"not null;default:0"`
	VerificationStatus   string    `gorm:"type:varchar(20);not null;default:'pending'"`
	VerifiedAt           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}

// RefreshTokenModel mirrors the 'refresh_tokens' table. A user holds at most one row.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
