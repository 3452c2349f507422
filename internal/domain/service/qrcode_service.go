package service

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateOrderQR generates a pickup QR code for an order group
	GenerateOrderQR(orderGroupID string) ([]byte, error)

	// ParseOrderQR parses QR code data and returns the order group ID
	ParseOrderQR(qrData string) (string, error)
}
