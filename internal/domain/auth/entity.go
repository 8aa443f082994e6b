package auth

import "time"

// PhoneNumber is the registration anchor for OTP login. The normalized
// number itself is the primary key.
type PhoneNumber struct {
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// OTP is a short-lived numeric login code bound to a phone number.
// A code is usable while IsValid is true and ExpiresAt is in the future;
// verification flips IsValid exactly once and never back.
type OTP struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Code        string    `json:"otp_code"`
	IsValid     bool      `json:"is_valid"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// User is created on the first successful OTP verification for a phone
// number and reused on every later login.
type User struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthToken is the long-lived bearer credential, one row per user.
type AuthToken struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	JTI       string    `json:"jti"`
	CreatedAt time.Time `json:"created_at"`
}
