// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. The same email may own one Producer and one Consumer account.
type User struct {
	ID           uuid.UUID    `json:"id"`                  // The Global Unique Identifier (GUID) for the user.
	Username     string       `json:"username"`            // Display name, shown to counterparts on orders and chat.
	Email        string       `json:"email"`               // Login identifier, unique per user type.
	PasswordHash string       `json:"-"`                   // bcrypt hash of the password.
	Mobile       string       `json:"mobile"`              // Contact phone number.
	UserType     UserType     `json:"userType"`            // Producer or Consumer.
	Address      string       `json:"address"`             // Default delivery or farm address.
	KisanCard    string       `json:"kisanCard,omitempty"` // Kisan credit card number, Producers only.
	FarmerID     string       `json:"farmerId,omitempty"`  // Government farmer registration, Producers only.
	Verified     bool         `json:"verified"`            // Set once the account passed an OTP verification.
	Bank         *BankDetails `json:"bankDetails,omitempty"`
	Stats        SellerStats  `json:"stats"`
	Settings     Settings     `json:"settings"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// IsProducer reports whether the user sells on the marketplace.
func (u *User) IsProducer() bool {
	return u.UserType == UserTypeProducer
}

// BankDetails holds the payout account of a Producer.
type BankDetails struct {
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bankName"`
	UPIID         string `json:"upiId,omitempty"`
}

// SellerStats are running counters maintained by the order workflow.
type SellerStats struct {
	ListedItems   int     `json:"listedItems"`
	MonthlyIncome float64 `json:"monthlyIncome"`
	BuyersCount   int     `json:"buyersCount"`
	QuantitySold  int     `json:"quantitySold"`
}

// Settings are per-user notification and language preferences.
type Settings struct {
	EmailNotifications bool   `json:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications"`
	OrderUpdates       bool   `json:"orderUpdates"`
	Language           string `json:"language"`
}

// DefaultSettings returns the preferences applied at signup.
func DefaultSettings() Settings {
	return Settings{
		EmailNotifications: true,
		PushNotifications:  true,
		OrderUpdates:       true,
		Language:           "en",
	}
}
