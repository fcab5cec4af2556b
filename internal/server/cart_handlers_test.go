package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smakosz/internal/middleware"
	"smakosz/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartResponse struct {
	Items []struct {
		ItemID   string  `json:"item_id"`
		Name     string  `json:"name"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	} `json:"items"`
	TotalPrice float64 `json:"total_price"`
	Length     int     `json:"length"`
}

func asGuest(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.GuestSessionCookie, Value: sid})
	return req
}

func TestGuestCartFlow(t *testing.T) {
	srv, app := newTestServer(t)
	miod := createTestProduct(t, srv, "Miód gryczany", "miod-gryczany", 24.50)
	sok := createTestProduct(t, srv, "Sok jabłkowy", "sok-jablkowy", 8.00)
	const sid = "guest-session-1"

	add := func(productID uint, qty int) *http.Response {
		req := asGuest(jsonRequest(http.MethodPost, "/api/cart/items", fiber.Map{
			"item_id":  fmt.Sprint(productID),
			"quantity": qty,
		}), sid)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := add(miod.ID, 2)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = add(sok.ID, 1)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The cart survives across requests keyed by the session cookie.
	getReq := asGuest(httptest.NewRequest(http.MethodGet, "/api/cart", nil), sid)
	resp, err := app.Test(getReq, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body cartResponse
	decodeBody(t, resp, &body)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, 3, body.Length)
	assert.InDelta(t, 57.00, body.TotalPrice, 0.001)

	// A different session sees an empty cart.
	otherReq := asGuest(httptest.NewRequest(http.MethodGet, "/api/cart", nil), "guest-session-2")
	resp, err = app.Test(otherReq, -1)
	require.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Items)

	// Updating to zero removes the line.
	updateReq := asGuest(jsonRequest(http.MethodPut,
		fmt.Sprintf("/api/cart/items/%d", sok.ID), fiber.Map{"quantity": 0}), sid)
	resp, err = app.Test(updateReq, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, fmt.Sprint(miod.ID), body.Items[0].ItemID)

	resetReq := asGuest(httptest.NewRequest(http.MethodDelete, "/api/cart", nil), sid)
	resp, err = app.Test(resetReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getReq = asGuest(httptest.NewRequest(http.MethodGet, "/api/cart", nil), sid)
	resp, err = app.Test(getReq, -1)
	require.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Items)
}

func TestGuestCartGetsSessionCookie(t *testing.T) {
	_, app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cart", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issued bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.GuestSessionCookie && c.Value != "" {
			issued = true
		}
	}
	assert.True(t, issued, "expected a guest session cookie to be set")
}

func TestUserCartPersistsInDatabase(t *testing.T) {
	srv, app := newTestServer(t)
	product := createTestProduct(t, srv, "Miód gryczany", "miod-gryczany", 24.50)
	user, token := createTestUser(t, srv, "kasia", false)

	req := jsonRequest(http.MethodPost, "/api/cart/items", fiber.Map{
		"item_id":  fmt.Sprint(product.ID),
		"quantity": 2,
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var shopper models.ShoppingUser
	require.NoError(t, srv.db.Where("user_id = ?", user.ID).First(&shopper).Error)
	assert.Contains(t, shopper.Cart, "Miód gryczany")

	// Reset keeps the shopper row but empties its payload.
	resetReq := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	resetReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(resetReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, srv.db.Where("user_id = ?", user.ID).First(&shopper).Error)
	assert.Equal(t, "{}", shopper.Cart)
}

func TestAddCartItemRejectsBadInput(t *testing.T) {
	srv, app := newTestServer(t)
	product := createTestProduct(t, srv, "Miód", "miod", 20)
	const sid = "guest-session-bad-input"

	cases := []struct {
		name   string
		body   fiber.Map
		status int
	}{
		{"zero quantity", fiber.Map{"item_id": fmt.Sprint(product.ID), "quantity": 0}, http.StatusBadRequest},
		{"negative quantity", fiber.Map{"item_id": fmt.Sprint(product.ID), "quantity": -1}, http.StatusBadRequest},
		{"unsupported kind", fiber.Map{"item_id": fmt.Sprint(product.ID), "kind": "recipe", "quantity": 1}, http.StatusBadRequest},
		{"unknown product", fiber.Map{"item_id": "99999", "quantity": 1}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := asGuest(jsonRequest(http.MethodPost, "/api/cart/items", tc.body), sid)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
