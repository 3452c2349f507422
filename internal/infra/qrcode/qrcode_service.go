package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"agrimarket/config"
	"agrimarket/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const (
	defaultSize     = 256
	orderPickupType = "order_pickup"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	OrderID string `json:"order_id"`
	Type    string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// NewFromConfig builds the service from the qrcode config section.
func NewFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// GenerateOrderQR renders a PNG pickup code the seller scans on handover.
func (s *qrcodeService) GenerateOrderQR(orderGroupID string) ([]byte, error) {
	if strings.TrimSpace(orderGroupID) == "" {
		return nil, fmt.Errorf("order id is required")
	}

	jsonData, err := json.Marshal(QRCodeData{
		OrderID: orderGroupID,
		Type:    orderPickupType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseOrderQR parses QR code data and returns the order group ID
func (s *qrcodeService) ParseOrderQR(qrData string) (string, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != orderPickupType {
		return "", fmt.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.OrderID == "" {
		return "", fmt.Errorf("QR code carries no order id")
	}

	return data.OrderID, nil
}
