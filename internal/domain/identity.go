package domain

// Identity is the authenticated caller of a single request.
type Identity struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// Authority returns the authority granted to the identity.
func (i Identity) Authority() string {
	return i.Role.Authority()
}
