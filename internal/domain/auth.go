package domain

type RequestOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// AuthResult is returned after a successful OTP exchange.
type AuthResult struct {
	Token string `json:"Bearer"`
	User  *User  `json:"user"`
}
