package utils

import (
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// ReferralQR renders link as a PNG QR code.
func ReferralQR(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, qrSize)
}
