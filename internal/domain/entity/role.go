// Package entity contains the core business objects of the project.
package entity

// UserType represents which side of the marketplace an account belongs to.
type UserType string

const (
	// UserTypeProducer is a seller (farmer).
	UserTypeProducer UserType = "Producer"
	// UserTypeConsumer is a buyer.
	UserTypeConsumer UserType = "Consumer"
)

// String returns the string representation of the UserType.
func (t UserType) String() string {
	return string(t)
}

// IsValid checks if the UserType is a valid value.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeProducer, UserTypeConsumer:
		return true
	default:
		return false
	}
}
