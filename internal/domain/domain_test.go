package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsTotalRoundsToCents(t *testing.T) {
	items := []OrderItem{
		{Name: "Coffee", Quantity: 3, Price: decimal.RequireFromString("3.333")},
		{Name: "Pancakes", Quantity: 1, Price: decimal.NewFromInt(8)},
	}
	assert.Equal(t, "18", ItemsTotal(items).String())
	assert.True(t, ItemsTotal(nil).IsZero())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusNew, StatusPaid, true},
		{StatusNew, StatusReady, true},
		{StatusReady, StatusReady, true},
		{StatusReady, StatusPreparing, false},
		{StatusCompleted, StatusNew, false},
		{StatusNew, OrderStatus("cancelled"), false},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%s->%s", c.from, c.to), func(t *testing.T) {
			assert.Equal(t, c.want, CanTransition(c.from, c.to))
		})
	}
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusReady.Terminal())
	assert.False(t, OrderStatus("").Valid())
}

func TestCloneDoesNotShareItems(t *testing.T) {
	o := Order{ID: "ORD1", Items: []OrderItem{{Name: "Tea", Quantity: 1, Price: decimal.NewFromInt(2)}}}
	c := o.Clone()
	c.Items[0].Quantity = 5
	assert.Equal(t, 1, o.Items[0].Quantity)
}

func TestGroupMenuSkipsInactive(t *testing.T) {
	m := GroupMenu([]MenuItem{
		{ID: 1, Name: "Pancakes", Price: decimal.NewFromInt(8), Category: "breakfast", Active: true},
		{ID: 2, Name: "Waffles", Price: decimal.NewFromInt(9), Category: "breakfast"},
		{ID: 3, Name: "Burger", Price: decimal.NewFromInt(12), Category: "lunch", Active: true},
	})
	require.Len(t, m["breakfast"], 1)
	assert.Equal(t, "Pancakes", m["breakfast"][0].Name)
	assert.Len(t, m["lunch"], 1)
}

func TestOrderTotalIsJSONNumber(t *testing.T) {
	b, err := json.Marshal(Order{ID: "ORD1", Total: decimal.RequireFromString("12.5"), Status: StatusNew})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"total":12.5`)

	var req CreateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tableNumber":4,"items":[],"total":7.25}`), &req))
	require.NotNil(t, req.Total)
	assert.Equal(t, "7.25", req.Total.String())
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("place: %w", NewValidationError("tableNumber", "must be positive"))
	assert.True(t, IsValidation(err))
	assert.EqualError(t, errors.Unwrap(err), "invalid tableNumber: must be positive")
	assert.False(t, IsValidation(ErrNotFound))
}
