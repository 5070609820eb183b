package models

// LeadInput is the intake payload for creating or refreshing a lead.
// Nil slices and maps mean "not provided".
type LeadInput struct {
	Name       string
	Email      string
	Goals      []string
	IssueAreas []string
	Attributes map[string]string
}

// PaymentSuccessInput reports a completed payment for an email.
type PaymentSuccessInput struct {
	Email     string
	Name      string
	SessionID string
}

// UpgradeResult is returned by every credential-issuing transition.
// Credential holds the plaintext exactly once.
type UpgradeResult struct {
	User       UserIdentity `json:"user"`
	Credential string       `json:"password"`
	EmailSent  bool         `json:"emailSent"`
}

// TestEmailResult is the outcome of a test credential email.
type TestEmailResult struct {
	Code      string `json:"code"`
	MessageID string `json:"messageId"`
}

// RoleChange is the outcome of an admin role set.
type RoleChange struct {
	User       AdminUserView `json:"user"`
	Issued     bool          `json:"credentialIssued"`
	Credential string        `json:"password,omitempty"`
}
