package supplier

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the supplier's trade site
const DefaultBaseURL = "https://my.muscles.co.za"

const (
	loginPath      = "/login.php"
	cartPath       = "/helpers/cart.php"
	sessionCookie  = "PHPSESSID"
	cartUpdateFunc = "update_cart_items"
)

// ErrInvalidBaseURL is returned for a base URL that is not absolute http(s)
var ErrInvalidBaseURL = errors.New("supplier: base URL must be an absolute http(s) URL")

// Config holds the supplier site connection settings
type Config struct {
	BaseURL   string
	UserAgent string
}

// Validate checks the config and fills defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// cartRequest is the body of a cart mutation
type cartRequest struct {
	Func string `json:"func"`
	ID   string `json:"id"`
	Qty  int    `json:"qty"`
}

// cartResponse is the supplier's cart mutation envelope
type cartResponse struct {
	OK   bool   `json:"ok"`
	Msg  string `json:"msg"`
	Data *struct {
		CartItem *cartItem `json:"cart_item"`
	} `json:"data"`
}

// cartItem prices arrive as numbers or quoted strings; decimal accepts both
type cartItem struct {
	Price    decimal.Decimal  `json:"cart_item_price"`
	Quantity *decimal.Decimal `json:"cart_item_quantity"`
}
