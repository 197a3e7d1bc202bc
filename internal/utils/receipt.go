package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateReceiptNumber generates a receipt number with the specified
// prefix and total length
func GenerateReceiptNumber(prefix string, length int) (string, error) {
	if length <= len(prefix) || length > 24 {
		return "", fmt.Errorf("invalid receipt number length: %d", length)
	}

	// Generate random digits
	digits := make([]byte, length-len(prefix))
	_, err := rand.Read(digits)
	if err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(prefix)
	for _, b := range digits {
		digit := b%10 + '0' // Convert to ASCII digit
		builder.WriteByte(digit)
	}

	receiptNo := builder.String()
	if len(receiptNo) != length {
		return "", fmt.Errorf("generated receipt number has incorrect length: got %d, want %d", len(receiptNo), length)
	}

	return receiptNo, nil
}

// PaymentHMAC generates a tamper-evidence stamp over the immutable
// fields of a payment record
func PaymentHMAC(reference, receiptNo, amount string, paidOn time.Time, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	data := reference + receiptNo + amount + paidOn.Format("2006-01-02")
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPaymentHMAC reports whether a stored stamp matches the payment
// fields it was computed over
func VerifyPaymentHMAC(stamp, reference, receiptNo, amount string, paidOn time.Time, secret string) bool {
	expected := PaymentHMAC(reference, receiptNo, amount, paidOn, secret)
	return hmac.Equal([]byte(stamp), []byte(expected))
}
