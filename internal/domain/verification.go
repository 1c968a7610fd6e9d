package domain

// VerificationLogin is the sort-key value for login OTPs.
const VerificationLogin = "login"

// UserVerification stores a hashed one-time code.
// PK: user_id, SK: type. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type UserVerification struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Type      string `json:"type" dynamodbav:"type"`
	CodeHash  string `json:"-" dynamodbav:"code_hash"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
