package supplier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/integration"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/", UserAgent: "storefront-test"}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)

	for _, bad := range []string{"ftp://supplier", "not a url", "/relative"} {
		c := Config{BaseURL: bad}
		assert.ErrorIs(t, c.Validate(), ErrInvalidBaseURL, bad)
	}
}

func TestClient_Login(t *testing.T) {
	t.Run("form login returns the session cookie without following the redirect", func(t *testing.T) {
		var followed atomic.Bool
		mux := http.NewServeMux()
		mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "buyer@example.com", r.PostForm.Get("email"))
			assert.Equal(t, "p&ss word", r.PostForm.Get("password"))
			assert.Equal(t, "storefront-test", r.UserAgent())
			http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "abc123", Path: "/"})
			http.Redirect(w, r, "/dashboard.php", http.StatusFound)
		})
		mux.HandleFunc("/dashboard.php", func(w http.ResponseWriter, r *http.Request) {
			followed.Store(true)
		})

		c := newTestClient(t, mux)
		session, err := c.Login(context.Background(), integration.SupplierCredentials{Email: "buyer@example.com", Password: "p&ss word"})
		require.NoError(t, err)
		assert.Equal(t, "PHPSESSID=abc123", session.Cookie)
		assert.False(t, followed.Load())
	})

	t.Run("no session cookie is an auth failure", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		_, err := c.Login(context.Background(), integration.SupplierCredentials{Email: "a@b.c", Password: "wrong"})
		assert.ErrorIs(t, err, integration.ErrSupplierAuthFailed)
	})

	t.Run("server error is unavailability", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		_, err := c.Login(context.Background(), integration.SupplierCredentials{Email: "a@b.c", Password: "x"})
		assert.ErrorIs(t, err, integration.ErrSupplierUnavailable)
	})

	t.Run("deadline becomes a remote timeout", func(t *testing.T) {
		release := make(chan struct{})
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.Login(ctx, integration.SupplierCredentials{Email: "a@b.c", Password: "x"})
		assert.ErrorIs(t, err, integration.ErrRemoteTimeout)
	})
}

func TestClient_SetCartQuantity(t *testing.T) {
	session := &integration.SupplierSession{Cookie: "PHPSESSID=abc123"}

	t.Run("sends the cart mutation and reads the cart line", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/helpers/cart.php", r.URL.Path)
			assert.Equal(t, "PHPSESSID=abc123", r.Header.Get("Cookie"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "update_cart_items", body["func"])
			assert.Equal(t, "5512", body["id"])
			assert.EqualValues(t, 3, body["qty"])

			_, _ = w.Write([]byte(`{"ok":true,"msg":"Cart updated","data":{"cart_item":{"cart_item_price":"249.50","cart_item_quantity":"3"}}}`))
		}))

		res, err := c.SetCartQuantity(context.Background(), session, "5512", 3)
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, "Cart updated", res.Message)
		require.NotNil(t, res.Line)
		assert.Equal(t, 3, res.Line.Quantity)
		assert.True(t, res.Line.LineTotal().Equal(decimal.RequireFromString("748.5")))
	})

	t.Run("remote rejection is data, not an error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"msg":"Out of stock"}`))
		}))

		res, err := c.SetCartQuantity(context.Background(), session, "1", 1)
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, "Out of stock", res.Message)
		assert.Nil(t, res.Line)
	})

	t.Run("numeric price without quantity", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true,"data":{"cart_item":{"cart_item_price":120}}}`))
		}))

		res, err := c.SetCartQuantity(context.Background(), session, "1", 1)
		require.NoError(t, err)
		require.NotNil(t, res.Line)
		assert.Zero(t, res.Line.Quantity)
		assert.True(t, res.Line.LineTotal().Equal(decimal.NewFromInt(120)))
	})

	t.Run("html instead of json", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>Please log in</html>`))
		}))

		_, err := c.SetCartQuantity(context.Background(), session, "1", 1)
		assert.ErrorIs(t, err, integration.ErrSupplierInvalidResponse)
	})

	t.Run("client error status", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := c.SetCartQuantity(context.Background(), session, "1", 1)
		assert.ErrorIs(t, err, integration.ErrSupplierRequestFailed)
	})

	t.Run("missing session", func(t *testing.T) {
		c, err := NewClient(Config{})
		require.NoError(t, err)
		_, err = c.SetCartQuantity(context.Background(), nil, "1", 1)
		assert.ErrorIs(t, err, integration.ErrSupplierAuthFailed)
	})
}
