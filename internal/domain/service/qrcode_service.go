package service

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateAddressQR generates a QR code image encoding a digital address ID
	GenerateAddressQR(digitalID string) ([]byte, error)

	// ParseAddressQR parses QR code payload data and returns the digital address ID
	ParseAddressQR(qrData string) (string, error)
}
