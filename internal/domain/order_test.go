package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderDispatched, true},
		{OrderConfirmed, OrderProcessing, true},
		{OrderProcessing, OrderDelivered, true},
		{OrderConfirmed, OrderPending, false},
		{OrderDelivered, OrderDispatched, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderCancelled, OrderCancelled, true},
		{OrderDispatched, OrderCancelled, true},
		{OrderPending, OrderPending, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionRejectsBackward(t *testing.T) {
	o := &Order{Status: OrderDispatched}
	err := o.Transition(OrderConfirmed)
	var transErr ErrInvalidTransition
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "Cannot change order status from dispatched to confirmed", err.Error())
	assert.Equal(t, OrderDispatched, o.Status)
}

func TestCancelDefaultsReason(t *testing.T) {
	now := time.Now()
	o := &Order{Status: OrderConfirmed}
	require.NoError(t, o.Cancel("", now))
	assert.Equal(t, OrderCancelled, o.Status)
	assert.Equal(t, "Cancelled by user", o.CancelReason)
	require.NotNil(t, o.CancelledAt)
	assert.True(t, o.CancelledAt.Equal(now))
}

func TestCancelRejectsDelivered(t *testing.T) {
	o := &Order{Status: OrderDelivered}
	err := o.Cancel("changed my mind", time.Now())
	require.ErrorIs(t, err, ErrOrderDelivered)
	assert.Equal(t, "Cannot cancel delivered orders", err.Error())
	assert.Equal(t, OrderDelivered, o.Status)
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderDispatched, OrderDelivered, OrderCancelled} {
		assert.True(t, ValidOrderStatus(s), string(s))
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestOrderItemJSONBareID(t *testing.T) {
	it := OrderItem{ID: uuid.New(), ProductID: uuid.New(), Qty: 2}
	raw, err := json.Marshal(it)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, it.ProductID.String(), out["productId"])
	assert.EqualValues(t, 2, out["qty"])
}

func TestOrderItemJSONPopulated(t *testing.T) {
	p := &Product{ID: uuid.New(), Name: "Linen Shirt", Price: 1999}
	it := OrderItem{ID: uuid.New(), ProductID: p.ID, Product: p, Qty: 1}
	raw, err := json.Marshal(it)
	require.NoError(t, err)

	var out struct {
		ProductID struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"productId"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, p.ID.String(), out.ProductID.ID)
	assert.Equal(t, "Linen Shirt", out.ProductID.Name)
}
