package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewOrderID returns an order id of the form INV-YYMMDD-NNNNNN where NNNNNN is
// a zero-padded random decimal. Generators need no coordination; a collision
// surfaces as a provider-level conflict on transaction creation.
func NewOrderID() string {
	now := time.Now().UTC()
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the clock rather than refuse to create a payment.
		n = big.NewInt(now.UnixNano() % 1_000_000)
	}
	return fmt.Sprintf("INV-%s-%06d", now.Format("060102"), n.Int64())
}
