package common

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
)

// ValidateEmail accepts a single bare address such as "a@b.com". Display
// names ("Ada <a@b.com>") and surrounding whitespace are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: %q is not a valid email address", ErrValidation, email)
	}
	return nil
}

// ValidateOTPCode accepts exactly OTPCodeLength ASCII digits.
func ValidateOTPCode(code string) error {
	if len(code) != OTPCodeLength {
		return fmt.Errorf("%w: code must be %d digits", ErrValidation, OTPCodeLength)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return fmt.Errorf("%w: code must be %d digits", ErrValidation, OTPCodeLength)
		}
	}
	return nil
}

// ValidatePassword checks a sign-up password and its confirmation.
func ValidatePassword(password, confirm []byte) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if !bytes.Equal(password, confirm) {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}
