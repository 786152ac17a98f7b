package payment

import "strings"

// successStatuses is the shared "payment completed" vocabulary. Both the
// polling path and the webhook path judge against this exact set so the two
// channels can never disagree on what paid means.
var successStatuses = map[string]struct{}{
	"paid":       {},
	"success":    {},
	"settlement": {},
	"capture":    {},
	"settled":    {},
	"completed":  {},
	"sukses":     {},
	"lunas":      {},
	"berhasil":   {},
}

// IsSuccessStatus reports whether a provider status string means the payment
// completed. Comparison is case-insensitive; an empty status never matches.
func IsSuccessStatus(status string) bool {
	_, ok := successStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}
