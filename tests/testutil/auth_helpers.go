package testutil

import (
	"testing"

	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/middleware"
	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewIdentity builds an identity with a fresh session id
func NewIdentity(kind models.IdentityKind, id uint) models.Identity {
	return models.Identity{Kind: kind, ID: id, SessionID: uuid.NewString()}
}

// MockAuth stands in for EnsureValidToken and sets a fixed identity
func MockAuth(identity models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}
}

// IssueToken signs a real session token for the identity
func IssueToken(t *testing.T, cfg *config.Config, identity models.Identity) string {
	t.Helper()
	session, err := services.NewAuthService(nil, cfg).IssueSession(identity)
	require.NoError(t, err)
	return session.Token
}

// BearerHeader formats an Authorization header value
func BearerHeader(token string) string {
	return "Bearer " + token
}
