package auth

// TokenRequest carries the credential pair for the token endpoint.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired (or expiring) access token alongside the
// opaque refresh token.
type RefreshRequest struct {
	Access  string `json:"access" validate:"required"`
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPairResponse mirrors the access/refresh shape clients expect.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
