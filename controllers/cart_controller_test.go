package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRouter(identity models.Identity) *gin.Engine {
	router := newTestRouter(&identity)
	router.GET("/cart", GetCart)
	router.POST("/cart/items", AddToCart)
	router.PUT("/cart/items/:productId", UpdateCartItem)
	router.DELETE("/cart/items/:productId", RemoveCartItem)
	router.DELETE("/cart", ClearCart)
	return router
}

func TestGetCart_Empty(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	router := cartRouter(testutil.NewIdentity(models.IdentityCustomer, customer.ID))

	w := performRequest(router, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["items"])
	assert.Equal(t, float64(0), data["item_count"])
	assert.True(t, decimalField(t, data, "subtotal").IsZero())
	assert.True(t, decimalField(t, data, "total").Equal(decimal.NewFromInt(100)))
	assert.Zero(t, env.Sessions.SaveCount(), "reading a cart must not write it back")
}

func TestAddToCart(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	shirt := testutil.CreateProduct(t, env.DB, "Shirt", "Men", "50.00", 5)
	pants := testutil.CreateProduct(t, env.DB, "Pants", "Men", "35.50", 2)
	router := cartRouter(testutil.NewIdentity(models.IdentityCustomer, customer.ID))

	w := performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": pants.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(shirt.ID), first["product_id"])
	assert.Equal(t, "Shirt", first["name"])
	assert.Equal(t, float64(3), first["quantity"], "repeated adds merge into one line")
	assert.Equal(t, float64(5), data["item_count"])
	assert.True(t, decimalField(t, data, "subtotal").Equal(decimal.RequireFromString("221")))
	assert.True(t, decimalField(t, data, "total").Equal(decimal.RequireFromString("321")))
}

func TestAddToCart_Failures(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	shirt := testutil.CreateProduct(t, env.DB, "Shirt", "Men", "50.00", 3)

	tests := []struct {
		name           string
		body           gin.H
		expectedStatus int
		expectedError  string
	}{
		{"more than in stock", gin.H{"product_id": shirt.ID, "quantity": 4}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"negative quantity", gin.H{"product_id": shirt.ID, "quantity": -1}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero quantity", gin.H{"product_id": shirt.ID, "quantity": 0}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown product", gin.H{"product_id": 999, "quantity": 1}, http.StatusNotFound, "NOT_FOUND"},
		{"missing product", gin.H{"quantity": 1}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := cartRouter(testutil.NewIdentity(models.IdentityCustomer, customer.ID))
			w := performRequest(router, http.MethodPost, "/cart/items", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, errorCode(t, w))
		})
	}
	assert.Zero(t, env.Sessions.SaveCount())
}

func TestAddToCart_CumulativeStockCheck(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	shirt := testutil.CreateProduct(t, env.DB, "Shirt", "Men", "50.00", 3)
	identity := testutil.NewIdentity(models.IdentityCustomer, customer.ID)
	router := cartRouter(identity)

	require.Equal(t, http.StatusOK, performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 2}).Code)

	w := performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	cart, err := env.Sessions.GetCart(t.Context(), identity.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Lines[shirt.ID].Quantity)
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	shirt := testutil.CreateProduct(t, env.DB, "Shirt", "Men", "50.00", 5)
	hat := testutil.CreateProduct(t, env.DB, "Hat", "Accessories", "10.00", 5)
	router := cartRouter(testutil.NewIdentity(models.IdentityCustomer, customer.ID))

	performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 1})
	performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": hat.ID, "quantity": 1})

	shirtPath := fmt.Sprintf("/cart/items/%d", shirt.ID)
	hatPath := fmt.Sprintf("/cart/items/%d", hat.ID)

	w := performRequest(router, http.MethodPut, shirtPath, gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), decodeBody(t, w)["data"].(map[string]interface{})["item_count"])

	w = performRequest(router, http.MethodPut, shirtPath, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].(map[string]interface{})["items"], 1, "zero quantity removes the line")

	w = performRequest(router, http.MethodPut, shirtPath, gin.H{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodPut, hatPath, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodDelete, hatPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["data"].(map[string]interface{})["items"])

	w = performRequest(router, http.MethodDelete, hatPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestClearCart(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	shirt := testutil.CreateProduct(t, env.DB, "Shirt", "Men", "50.00", 5)
	identity := testutil.NewIdentity(models.IdentityCustomer, customer.ID)
	router := cartRouter(identity)

	performRequest(router, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 3})

	w := performRequest(router, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cart, err := env.Sessions.GetCart(t.Context(), identity.SessionID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCart_IsolatedPerSession(t *testing.T) {
	env := testutil.Setup(t)
	customer := testutil.CreateCustomer(t, env.DB, "alice")
	shirt := testutil.CreateProduct(t, env.DB, "Shirt", "Men", "50.00", 5)

	phone := cartRouter(testutil.NewIdentity(models.IdentityCustomer, customer.ID))
	laptop := cartRouter(testutil.NewIdentity(models.IdentityCustomer, customer.ID))

	performRequest(phone, http.MethodPost, "/cart/items", gin.H{"product_id": shirt.ID, "quantity": 1})

	w := performRequest(laptop, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["data"].(map[string]interface{})["items"])
}
