package integration

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/fashionmart/storefront-api/tests/testutil"
	"github.com/fashionmart/storefront-api/utils"
	"github.com/stretchr/testify/suite"
)

// FileUploadIntegrationTestSuite covers product images through both backends
type FileUploadIntegrationTestSuite struct {
	apiSuite
	adminToken string
	product    *models.Product
}

func TestFileUploadIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FileUploadIntegrationTestSuite))
}

func (s *FileUploadIntegrationTestSuite) SetupTest() {
	s.apiSuite.SetupTest()
	admin := testutil.CreateAdmin(s.T(), s.env.DB, "boss")
	s.adminToken = s.tokenFor(models.IdentityAdmin, admin.ID)
	s.product = testutil.CreateProduct(s.T(), s.env.DB, "Silk Scarf", "Accessories", "15.00", 8)
}

func (s *FileUploadIntegrationTestSuite) upload(filename string, content []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/admin/products/%d/image", s.product.ID), body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", testutil.BearerHeader(s.adminToken))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *FileUploadIntegrationTestSuite) TestS3Backend() {
	w := s.upload("scarf.png", []byte("png bytes"))
	s.expectStatus(http.StatusOK, w)
	s.True(s.env.Images.ImageExists("products/mock_scarf.png"))

	w = s.do(http.MethodGet, fmt.Sprintf("/products/%d", s.product.ID), "", nil)
	s.expectStatus(http.StatusOK, w)
	product := s.data(w)["product"].(map[string]interface{})
	s.Contains(product["image_url"], "mock=true")
}

func (s *FileUploadIntegrationTestSuite) TestLocalBackendServesFile() {
	services.SetImageService(services.NewLocalImageService(utils.UploadDir))

	content := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	w := s.upload("scarf.jpg", content)
	s.expectStatus(http.StatusOK, w)
	url := s.data(w)["image_url"].(string)
	s.Contains(url, "/api/v1/uploads/")

	req := httptest.NewRequest(http.MethodGet, url, nil)
	served := httptest.NewRecorder()
	s.router.ServeHTTP(served, req)
	s.Equal(http.StatusOK, served.Code)
	s.Equal("image/jpeg", served.Header().Get("Content-Type"))
	s.Equal(content, served.Body.Bytes())
}

func (s *FileUploadIntegrationTestSuite) TestRejectedUploads() {
	w := s.upload("scarf.bmp", []byte("bmp"))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(w))

	w = s.upload("huge.png", bytes.Repeat([]byte("x"), utils.MaxFileSize+1))
	s.Equal(http.StatusBadRequest, w.Code)

	customer := testutil.CreateCustomer(s.T(), s.env.DB, "alice")
	s.adminToken = s.tokenFor(models.IdentityCustomer, customer.ID)
	w = s.upload("scarf.png", []byte("png"))
	s.Equal(http.StatusForbidden, w.Code)
}
