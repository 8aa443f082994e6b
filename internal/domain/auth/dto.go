package auth

import "time"

type RegisterPhoneRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type RequestOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTPCode     string `json:"otp_code" binding:"required"`
}

// OTPIssuedResponse echoes the plaintext code. There is no SMS gateway
// behind this service; callers relay the code themselves.
type OTPIssuedResponse struct {
	PhoneNumber string    `json:"phone_number"`
	OTPCode     string    `json:"otp_code"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type VerifyOTPResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
