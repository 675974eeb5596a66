package model

// Credential is the admin's token pair issued by the backend token endpoint,
// bound to the browser that logged in. The zero value means logged out.
type Credential struct {
	AccessToken  string
	RefreshToken string
	// SessionHash is the hex SHA-256 of the browser's session cookie. Only the
	// holder of that cookie may act with the tokens.
	SessionHash string
}

// IsZero reports whether no access token is held.
func (c Credential) IsZero() bool {
	return c.AccessToken == ""
}
