package payment

import "errors"

// Errors surfaced by the gateway and the lifecycle engine. The creation path
// returns them to the caller; the status path collapses every failure into an
// unpaid verdict instead.
var (
	// ErrConfig marks missing or placeholder credentials. It is raised before
	// any network call so a misconfigured deployment fails fast.
	ErrConfig = errors.New("provider configuration error")

	ErrNotANumber   = errors.New("amount is not a number")
	ErrBelowMinimum = errors.New("minimum payment is Rp1.000")
	ErrAboveMaximum = errors.New("maximum payment is Rp10.000.000")

	ErrTimeout               = errors.New("provider timed out")
	ErrUnauthorized          = errors.New("provider API key is not valid")
	ErrForbidden             = errors.New("IP address is not whitelisted with the provider")
	ErrNotFound              = errors.New("provider endpoint not found, check the base URL")
	ErrRateLimited           = errors.New("too many requests to the provider, try again later")
	ErrProviderUnavailable   = errors.New("provider is unavailable")
	ErrEndpointMisconfigured = errors.New("provider returned a non-JSON response, endpoint misconfigured")

	ErrQREncoding     = errors.New("QR code encoding failed")
	ErrMissingOrderID = errors.New("order id not found in webhook payload")
)

// IsInvalidAmount reports whether err is one of the amount policy rejections.
func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrNotANumber) ||
		errors.Is(err, ErrBelowMinimum) ||
		errors.Is(err, ErrAboveMaximum)
}
