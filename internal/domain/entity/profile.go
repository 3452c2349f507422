package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus tracks manual review of a profile.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Profile holds presentation data and completion bookkeeping for a user.
type Profile struct {
	UserID               uuid.UUID          `json:"userId"`
	Bio                  string             `json:"bio"`
	AvatarURL            string             `json:"avatarUrl"`
	CompletionPercentage int                `json:"completionPercentage"`
	VerificationStatus   VerificationStatus `json:"verificationStatus"`
	VerifiedAt           *time.Time         `json:"verifiedAt,omitempty"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// ComputeCompletion scores how many of the profile-relevant fields are filled in.
// Producers are additionally scored on kisan card, farmer id and bank details.
func ComputeCompletion(user *User, profile *Profile) int {
	fields := []bool{
		user.Username != "",
		user.Email != "",
		user.Mobile != "",
		user.Address != "",
		profile != nil && profile.Bio != "",
		profile != nil && profile.AvatarURL != "",
	}
	if user.IsProducer() {
		fields = append(fields,
			user.KisanCard != "",
			user.FarmerID != "",
			user.Bank != nil && user.Bank.AccountNumber != "",
		)
	}

	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}

	return filled * 100 / len(fields)
}
