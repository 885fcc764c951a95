// Package qrcode renders digital address IDs as scannable QR codes.
package qrcode

import (
	"encoding/json"
	"fmt"

	"pinpoint/internal/domain/service"
	"pinpoint/internal/util"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	DigitalID string `json:"digital_id"`
	Type      string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
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

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateAddressQR generates a QR code PNG encoding a digital address ID.
func (s *qrcodeService) GenerateAddressQR(digitalID string) ([]byte, error) {
	if !util.IsValidDigitalID(digitalID) {
		return nil, fmt.Errorf("invalid digital ID: %s", digitalID)
	}

	data := QRCodeData{
		DigitalID: digitalID,
		Type:      "address",
	}

	jsonData, err := json.Marshal(data)
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

// ParseAddressQR parses scanned QR code data and returns the digital ID.
func (s *qrcodeService) ParseAddressQR(qrData string) (string, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	// Validate type
	if data.Type != "address" {
		return "", fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	normalized := util.NormalizeDigitalID(data.DigitalID)
	if !util.IsValidDigitalID(normalized) {
		return "", fmt.Errorf("invalid digital ID in QR code: %s", data.DigitalID)
	}

	return normalized, nil
}
