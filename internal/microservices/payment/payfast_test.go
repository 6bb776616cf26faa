package payment

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/common/config"
	"restaurant-system/internal/domain"
)

func TestDemoURL(t *testing.T) {
	g := New(config.Payment{Mode: "demo", MerchantID: "10000100"})

	raw, err := g.URL("https://table.example.com/", Request{
		OrderID: "ORD42", Amount: decimal.RequireFromString("114"), TableNumber: 7, ItemCount: 2,
	})
	require.NoError(t, err)
	assert.False(t, g.Live())

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "table.example.com", u.Host)
	assert.Equal(t, "/payment/success", u.Path)
	assert.Equal(t, "ORD42", u.Query().Get("m_payment_id"))
	assert.Equal(t, "114.00", u.Query().Get("amount"))
	assert.Equal(t, "Table 7 - 2 items", u.Query().Get("item_name"))
}

func TestPayFastURL(t *testing.T) {
	g := New(config.Payment{Mode: "payfast", Env: "sandbox", MerchantID: "10000100", MerchantKey: "46f0cd694581a"})

	raw, err := g.URL("http://localhost:3000", Request{
		OrderID: "ORD7", Amount: decimal.RequireFromString("25.5"), TableNumber: 3, ItemCount: 1,
	})
	require.NoError(t, err)
	assert.True(t, g.Live())
	assert.True(t, strings.HasPrefix(raw, sandboxURL+"?"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "10000100", q.Get("merchant_id"))
	assert.Equal(t, "46f0cd694581a", q.Get("merchant_key"))
	assert.Equal(t, "http://localhost:3000/payment/success", q.Get("return_url"))
	assert.Equal(t, "http://localhost:3000/payment/cancel", q.Get("cancel_url"))
	assert.Equal(t, "http://localhost:3000/payment/notify", q.Get("notify_url"))
	assert.Equal(t, "25.50", q.Get("amount"))
	assert.Equal(t, "Restaurant Order - ORD7", q.Get("item_description"))
	assert.Equal(t, "3", q.Get("custom_str1"))
	assert.Equal(t, "ORD7", q.Get("custom_str2"))
}

func TestPayFastProductionEndpoint(t *testing.T) {
	g := New(config.Payment{Mode: "payfast", Env: "production", MerchantID: "1"})
	raw, err := g.URL("https://x", Request{OrderID: "ORD1", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, productionURL))
}

func TestURLValidation(t *testing.T) {
	g := New(config.Payment{Mode: "demo"})
	_, err := g.URL("https://x", Request{Amount: decimal.NewFromInt(1)})
	assert.True(t, domain.IsValidation(err))
	_, err = g.URL("https://x", Request{OrderID: "ORD1", Amount: decimal.NewFromInt(-1)})
	assert.True(t, domain.IsValidation(err))
}

func TestPagesEscapeOrderID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSuccess(&buf, "<script>"))
	assert.Contains(t, buf.String(), "Payment Successful!")
	assert.NotContains(t, buf.String(), "<script>")

	buf.Reset()
	require.NoError(t, RenderCancel(&buf))
	assert.Contains(t, buf.String(), "Payment Cancelled")
}
