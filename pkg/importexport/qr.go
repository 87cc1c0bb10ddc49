package importexport

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 512

// maxQRPayload is the byte capacity of a version 40 code at the lowest
// recovery level.
const maxQRPayload = 2953

var ErrPackTooLarge = errors.New("pack is too large for a QR code")

// EncodeQR renders a pack as a PNG QR code so another device can scan it
// straight into its import screen.
func EncodeQR(pack []byte, size int) ([]byte, error) {
	if len(pack) > maxQRPayload {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrPackTooLarge, len(pack), maxQRPayload)
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(string(pack), qrcode.Low, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
