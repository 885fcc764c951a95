package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDigitalID = "AB3D-EF4H-JK5M"

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_GenerateAddressQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.GenerateAddressQR(testDigitalID)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GenerateAddressQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, "M")

			qrBytes, err := service.GenerateAddressQR(testDigitalID)
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_GenerateAddressQR_RejectsMalformedID(t *testing.T) {
	service := NewQRCodeService(256, "M")

	_, err := service.GenerateAddressQR("not-a-code")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid digital ID")
}

func TestQRCodeService_ParseAddressQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		DigitalID: testDigitalID,
		Type:      "address",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	parsedID, err := service.ParseAddressQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, testDigitalID, parsedID)
}

func TestQRCodeService_ParseAddressQR_NormalizesCase(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		DigitalID: "ab3d-ef4h-jk5m",
		Type:      "address",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	parsedID, err := service.ParseAddressQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, testDigitalID, parsedID)
}

func TestQRCodeService_ParseAddressQR_InvalidJSON(t *testing.T) {
	service := NewQRCodeService(256, "M")

	_, err := service.ParseAddressQR("invalid json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal QR code data")
}

func TestQRCodeService_ParseAddressQR_InvalidType(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		DigitalID: testDigitalID,
		Type:      "invalid_type",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseAddressQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestQRCodeService_ParseAddressQR_InvalidDigitalID(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		DigitalID: "short",
		Type:      "address",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseAddressQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid digital ID in QR code")
}
