package auth

// SecretPayload is the body served to authenticated users on the protected
// resource.
type SecretPayload struct {
	SecretData string `json:"secretData"`
}

// Policy maps a user's role to the payload that role may see.
type Policy struct {
	Admin   SecretPayload
	Default SecretPayload
}

// DefaultPolicy returns the payloads served by NewService.
func DefaultPolicy() Policy {
	return Policy{
		Admin:   SecretPayload{SecretData: "Here is your super secret admin data!"},
		Default: SecretPayload{SecretData: "Here is your regular user data!"},
	}
}

// Resolve looks only at u.Role. Callers must check authentication first.
func (p Policy) Resolve(u *User) SecretPayload {
	if u.Role == RoleAdmin {
		return p.Admin
	}
	return p.Default
}
