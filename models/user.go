package models

// Principal is the identity record the remote login endpoint returns.
// Credential issuance and verification are entirely the remote system's
// business; this service only carries the result into a SessionRecord.
type Principal struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	BranchId string `json:"branch_id"`
}

type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginInfo is what the UI gets back after a successful login.
type LoginInfo struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	BranchId  string `json:"branch_id"`
	ExpiresIn int64  `json:"expires_in"` // seconds until expiry without activity
}
