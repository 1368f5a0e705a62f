package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/fashionmart/storefront-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// AuthIntegrationTestSuite covers registration, login and token handling
type AuthIntegrationTestSuite struct {
	apiSuite
}

func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}

func (s *AuthIntegrationTestSuite) login(path, username, password string) string {
	w := s.do(http.MethodPost, path, "", gin.H{"username": username, "password": password})
	s.expectStatus(http.StatusOK, w)
	return s.data(w)["token"].(string)
}

func (s *AuthIntegrationTestSuite) TestRegisterLoginMe() {
	w := s.do(http.MethodPost, "/auth/customer/register", "", gin.H{
		"username": "nadia",
		"password": "s3cret!",
		"name":     "Nadia",
		"email":    "nadia@example.com",
		"city":     "Chittagong",
	})
	s.expectStatus(http.StatusCreated, w)

	token := s.login("/auth/customer/login", "nadia", "s3cret!")

	w = s.do(http.MethodGet, "/auth/me", token, nil)
	s.expectStatus(http.StatusOK, w)
	me := s.data(w)
	s.Equal("customer", me["kind"])
	s.NotEmpty(me["session_id"])
}

func (s *AuthIntegrationTestSuite) TestEachKindReachesItsArea() {
	testutil.CreateCustomer(s.T(), s.env.DB, "alice")
	testutil.CreateDeliveryMan(s.T(), s.env.DB, "rider", models.AgentStatusActive)
	testutil.CreateAdmin(s.T(), s.env.DB, "boss")

	customer := s.login("/auth/customer/login", "alice", "password")
	agent := s.login("/auth/agent/login", "rider", "password")
	admin := s.login("/auth/admin/login", "boss", "password")

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/cart", customer, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/delivery/orders", agent, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/admin/dashboard", admin, nil).Code)

	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/admin/dashboard", customer, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/cart", admin, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/delivery/orders", customer, nil).Code)
}

func (s *AuthIntegrationTestSuite) TestRejectedTokens() {
	customer := testutil.CreateCustomer(s.T(), s.env.DB, "alice")
	identity := testutil.NewIdentity(models.IdentityCustomer, customer.ID)

	expired := services.SessionClaims{
		Kind:      string(identity.Kind),
		SessionID: identity.SessionID,
		StandardClaims: jwt.StandardClaims{
			Audience:  s.env.Config.JWTAudience,
			Issuer:    s.env.Config.JWTIssuer,
			Subject:   "1",
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testutil.TestSecret))
	s.Require().NoError(err)

	otherCfg := testutil.TestConfig()
	otherCfg.JWTSecret = "another-secret-entirely"
	forged := testutil.IssueToken(s.T(), otherCfg, identity)

	for name, token := range map[string]string{
		"expired":     expiredToken,
		"wrong key":   forged,
		"not a token": "abc.def.ghi",
	} {
		s.Run(name, func() {
			w := s.do(http.MethodGet, "/cart", token, nil)
			s.Equal(http.StatusUnauthorized, w.Code)
			s.Equal("INVALID_TOKEN", s.errorCode(w))
		})
	}

	w := s.do(http.MethodGet, "/cart", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("MISSING_TOKEN", s.errorCode(w))
}

func (s *AuthIntegrationTestSuite) TestLogoutDropsCart() {
	customer := testutil.CreateCustomer(s.T(), s.env.DB, "alice")
	shirt := testutil.CreateProduct(s.T(), s.env.DB, "Shirt", "Men", "10.00", 4)
	token := s.tokenFor(models.IdentityCustomer, customer.ID)

	s.expectStatus(http.StatusOK, s.do(http.MethodPost, "/cart/items", token, gin.H{"product_id": shirt.ID, "quantity": 2}))
	s.expectStatus(http.StatusOK, s.do(http.MethodPost, "/auth/logout", token, nil))

	w := s.do(http.MethodGet, "/cart", token, nil)
	s.expectStatus(http.StatusOK, w)
	s.Empty(s.data(w)["items"])
}
