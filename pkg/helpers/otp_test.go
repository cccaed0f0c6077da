package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenOTPCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestOTPEqual(t *testing.T) {
	assert.True(t, OTPEqual("123456", "123456"))
	assert.False(t, OTPEqual("123457", "123456"))
	assert.False(t, OTPEqual("", "123456"))
	assert.False(t, OTPEqual("12345", "123456"))
}
