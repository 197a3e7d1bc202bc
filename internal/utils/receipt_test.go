package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptNumber(t *testing.T) {
	no, err := GenerateReceiptNumber("RCP", 12)
	require.NoError(t, err)
	assert.Len(t, no, 12)
	assert.True(t, strings.HasPrefix(no, "RCP"))
	for _, c := range no[3:] {
		assert.True(t, c >= '0' && c <= '9', "suffix must be digits, got %q", no)
	}

	_, err = GenerateReceiptNumber("RCP", 3)
	assert.Error(t, err)
	_, err = GenerateReceiptNumber("RCP", 40)
	assert.Error(t, err)
}

func TestPaymentHMAC(t *testing.T) {
	paidOn := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	secret := "test-secret"

	stamp := PaymentHMAC("ref-1", "RCP123", "366.67", paidOn, secret)
	assert.True(t, VerifyPaymentHMAC(stamp, "ref-1", "RCP123", "366.67", paidOn, secret))
	assert.False(t, VerifyPaymentHMAC(stamp, "ref-1", "RCP123", "999.99", paidOn, secret),
		"tampered amount must fail verification")
	assert.False(t, VerifyPaymentHMAC(stamp, "ref-1", "RCP123", "366.67", paidOn, "other-secret"))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef") // 32 bytes

	ciphertext, err := Encrypt("ID-9182736450", key)
	require.NoError(t, err)
	assert.NotEqual(t, "ID-9182736450", ciphertext)

	plain, err := Decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, "ID-9182736450", plain)

	_, err = Encrypt("x", []byte("short"))
	assert.Error(t, err)
	_, err = Decrypt("zz-not-hex", key)
	assert.Error(t, err)
}
