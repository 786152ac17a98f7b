package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccessStatus(t *testing.T) {
	for _, s := range []string{
		"paid", "success", "settlement", "capture", "settled",
		"completed", "sukses", "lunas", "berhasil",
	} {
		assert.True(t, IsSuccessStatus(s), s)
	}

	// case-insensitive
	assert.True(t, IsSuccessStatus("PAID"))
	assert.True(t, IsSuccessStatus("Settlement"))
	assert.True(t, IsSuccessStatus("  paid  "))

	for _, s := range []string{"pending", "expired", "failed", "cancel", "deny", ""} {
		assert.False(t, IsSuccessStatus(s), s)
	}
}
