package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetQuantityKeepsFlagInSync(t *testing.T) {
	var p Product

	p.SetQuantity(5)
	assert.Equal(t, 5, p.Inventory.Quantity)
	assert.True(t, p.Inventory.InStock)

	p.SetQuantity(0)
	assert.Equal(t, 0, p.Inventory.Quantity)
	assert.False(t, p.Inventory.InStock)

	p.SetQuantity(-3)
	assert.Equal(t, 0, p.Inventory.Quantity)
	assert.False(t, p.Inventory.InStock)
}

func TestSalePrice(t *testing.T) {
	p := Product{Price: 2000}
	assert.InDelta(t, 2000, p.SalePrice(), 0.001)

	p.DiscountPercent = 25
	assert.InDelta(t, 1500, p.SalePrice(), 0.001)

	p.DiscountPercent = 100
	assert.InDelta(t, 0, p.SalePrice(), 0.001)
}
