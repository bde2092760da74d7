// Package classqr renders the QR code students scan to join a class.
package classqr

import (
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

var ErrEmptyCode = errors.New("class code is empty")

// PNG encodes classCode as a QR code image of size pixels.
func PNG(classCode string, size int) ([]byte, error) {
	code := strings.TrimSpace(classCode)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}
