package payment

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize matches the provider-recommended scan size. Not a tunable.
const qrSize = 400

// EncodeQR renders a payment payload as a PNG. Pure transform, no network.
// Failure here is distinct from payload acquisition so the caller can tell
// "nothing to encode" apart from "encoding broke".
func EncodeQR(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrQREncoding)
	}
	png, err := qrcode.Encode(payload, qrcode.Highest, qrSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQREncoding, err)
	}
	return png, nil
}
