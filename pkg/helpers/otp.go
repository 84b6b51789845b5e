package helpers

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// OTP helpers

const (
	otpMin = 100000
	otpMax = 999999
)

// KeyPendingSignup is the Redis key for a pending registration
func KeyPendingSignup(email string) string {
	return "signup:pending:" + email
}

// GenOTPCode generates a secure random 6-digit code in 100000-999999 (never zero-padded)
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
