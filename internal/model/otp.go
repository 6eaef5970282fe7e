package model

import "time"

type OTPType string

const (
	OTPTypeEmailVerification OTPType = "email_verification"
	OTPTypePasswordReset     OTPType = "password_reset"
	OTPTypeLoginVerification OTPType = "login_verification"
)

// ValidOTPType reports whether t is one of the enumerated purposes.
func ValidOTPType(t OTPType) bool {
	switch t {
	case OTPTypeEmailVerification, OTPTypePasswordReset, OTPTypeLoginVerification:
		return true
	}
	return false
}

const (
	// OTPMaxAttempts is the number of failed guesses after which a code is dead.
	OTPMaxAttempts = 3
	// OTPTTL is how long an issued code stays valid.
	OTPTTL = 10 * time.Minute
)

type OTP struct {
	OTPID     int64     `json:"otpid"`
	Email     string    `json:"email"`
	Code      string    `json:"-"` // never JSON-encode
	Type      OTPType   `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}
