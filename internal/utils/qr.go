package utils

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// BookingQRCode renders a booking code as a PNG QR image of the given pixel
// size. The image is shown on the confirmation screen and scanned at the
// theater entrance.
func BookingQRCode(code string, size int) ([]byte, error) {
	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
