// Package payment builds the redirect URLs of the PayFast checkout and of
// the demo flow that lands straight on the success page.
package payment

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-system/internal/common/config"
	"restaurant-system/internal/domain"
)

const (
	sandboxURL    = "https://sandbox.payfast.co.za/eng/process"
	productionURL = "https://www.payfast.co.za/eng/process"
)

type Request struct {
	OrderID     string
	Amount      decimal.Decimal
	TableNumber int
	ItemCount   int
}

type Generator struct {
	cfg config.Payment
}

func New(cfg config.Payment) *Generator { return &Generator{cfg: cfg} }

// Live reports whether URL hands the customer to PayFast.
func (g *Generator) Live() bool {
	return g.cfg.Mode == "payfast" && g.cfg.MerchantID != ""
}

// URL returns the checkout URL for req; baseURL is this service's public
// origin and receives the return, cancel and notify callbacks.
func (g *Generator) URL(baseURL string, req Request) (string, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return "", domain.NewValidationError("orderId", "is required")
	}
	if req.Amount.IsNegative() {
		return "", domain.NewValidationError("amount", "must not be negative")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	itemName := fmt.Sprintf("Table %d - %d items", req.TableNumber, req.ItemCount)

	if !g.Live() {
		q := url.Values{}
		q.Set("m_payment_id", req.OrderID)
		q.Set("amount", req.Amount.StringFixed(2))
		q.Set("item_name", itemName)
		return baseURL + "/payment/success?" + q.Encode(), nil
	}

	q := url.Values{}
	q.Set("merchant_id", g.cfg.MerchantID)
	q.Set("merchant_key", g.cfg.MerchantKey)
	q.Set("return_url", baseURL+"/payment/success")
	q.Set("cancel_url", baseURL+"/payment/cancel")
	q.Set("notify_url", baseURL+"/payment/notify")
	q.Set("m_payment_id", req.OrderID)
	q.Set("amount", req.Amount.StringFixed(2))
	q.Set("item_name", itemName)
	q.Set("item_description", "Restaurant Order - "+req.OrderID)
	q.Set("custom_str1", strconv.Itoa(req.TableNumber))
	q.Set("custom_str2", req.OrderID)

	endpoint := sandboxURL
	if g.cfg.Env == "production" {
		endpoint = productionURL
	}
	return endpoint + "?" + q.Encode(), nil
}
