package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/models"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	claimsKey   = "validated_claims"
)

// CustomClaims are the session fields carried next to the registered claims.
type CustomClaims struct {
	Kind      string `json:"kind"`
	SessionID string `json:"sid"`
}

// Validate rejects tokens without a known account kind or session id.
func (c CustomClaims) Validate(ctx context.Context) error {
	if !models.IdentityKind(c.Kind).Valid() {
		return errors.New("token has an unknown account kind")
	}
	if c.SessionID == "" {
		return errors.New("token has no session id")
	}
	return nil
}

// EnsureValidToken verifies the bearer token and stores the caller's identity.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		slog.Error("failed to set up the jwt validator", "error", err)
		panic(err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		code, message := "INVALID_TOKEN", "Failed to validate JWT."
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "MISSING_TOKEN", "Authentication required."
		}
		slog.Info("rejected request token", "path", r.URL.Path, "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		body := `{"success":false,"error":{"code":"` + code + `","message":"` + message + `"}}`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			slog.Warn("failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authenticated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			claims := token.CustomClaims.(*CustomClaims)

			id, err := strconv.ParseUint(token.RegisteredClaims.Subject, 10, 64)
			if err != nil || id == 0 {
				errorHandler(w, r, errors.New("token subject is not an account id"))
				return
			}

			authenticated = true
			SetIdentity(c, models.Identity{
				Kind:      models.IdentityKind(claims.Kind),
				ID:        uint(id),
				SessionID: claims.SessionID,
			})
			c.Set(claimsKey, token)
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !authenticated {
			c.Abort()
		}
	}
}

// SetIdentity stores the authenticated caller in the Gin context
func SetIdentity(c *gin.Context, identity models.Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity extracts the authenticated caller from the Gin context
func GetIdentity(c *gin.Context) (models.Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, &AuthError{Code: "MISSING_IDENTITY", Message: "Identity not found in context"}
	}

	identity, ok := value.(models.Identity)
	if !ok {
		return models.Identity{}, &AuthError{Code: "INVALID_IDENTITY", Message: "Identity is not in the expected format"}
	}

	return identity, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireKind only lets callers of the given account kinds through
func RequireKind(kinds ...models.IdentityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentity(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			c.Abort()
			return
		}

		for _, kind := range kinds {
			if identity.Kind == kind {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "You do not have access to this resource",
			},
		})
		c.Abort()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
