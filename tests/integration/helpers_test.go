package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/routes"
	"github.com/fashionmart/storefront-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// apiSuite runs every test against the full router with a fresh database
type apiSuite struct {
	suite.Suite
	env    *testutil.Env
	router *gin.Engine
}

func (s *apiSuite) SetupTest() {
	s.env = testutil.Setup(s.T())
	s.router = routes.NewRouter(s.env.Config)
}

func (s *apiSuite) tokenFor(kind models.IdentityKind, id uint) string {
	return testutil.IssueToken(s.T(), s.env.Config, testutil.NewIdentity(kind, id))
}

// do sends a JSON request, with a bearer token when token is not empty
func (s *apiSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(token))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *apiSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (s *apiSuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	data, ok := s.decode(w)["data"].(map[string]interface{})
	s.Require().True(ok, "expected an object in data, got %s", w.Body.String())
	return data
}

func (s *apiSuite) errorCode(w *httptest.ResponseRecorder) string {
	errBody, ok := s.decode(w)["error"].(map[string]interface{})
	s.Require().True(ok, "expected an error envelope, got %s", w.Body.String())
	return errBody["code"].(string)
}

func idOf(data map[string]interface{}) string {
	return strconv.FormatFloat(data["id"].(float64), 'f', 0, 64)
}

func (s *apiSuite) expectStatus(want int, w *httptest.ResponseRecorder) {
	s.Require().Equal(want, w.Code, w.Body.String())
}
