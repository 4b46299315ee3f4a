package identity

import (
	"fmt"
	"net/http"
	"strings"
)

// JWTResolver resolves the caller from a bearer token or session cookie.
type JWTResolver struct {
	tokens      *TokenService
	revocations Revocations
	cookieName  string
}

// NewJWTResolver builds a resolver. revocations may be nil.
func NewJWTResolver(tokens *TokenService, revocations Revocations, cookieName string) *JWTResolver {
	return &JWTResolver{tokens: tokens, revocations: revocations, cookieName: cookieName}
}

// Resolve returns the caller identity, nil when the request carries no valid
// credentials, or an error when a collaborator could not be reached.
func (r *JWTResolver) Resolve(req *http.Request) (*Identity, error) {
	raw := r.extractToken(req)
	if raw == "" {
		return nil, nil
	}

	claims, err := r.tokens.ValidateToken(raw)
	if err != nil {
		return nil, nil
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, nil
	}

	if r.revocations != nil {
		revoked, err := r.revocations.IsRevoked(req.Context(), claims.ID)
		if err != nil {
			return nil, fmt.Errorf("identity: check revocation: %w", err)
		}
		if revoked {
			return nil, nil
		}
	}

	id := &Identity{
		ID:      claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func (r *JWTResolver) extractToken(req *http.Request) string {
	if header := req.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if r.cookieName == "" {
		return ""
	}
	cookie, err := req.Cookie(r.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
