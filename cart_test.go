package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testProduct(stock int, price float64) Product {
	return Product{ID: primitive.NewObjectID(), Name: "p", CountInStock: stock, Price: price}
}

func TestApplyCartAddNewLine(t *testing.T) {
	p := testProduct(5, 100)
	cart, err := applyCartAdd(nil, p, 2)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, p.ID, cart[0].ProductID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 100.0, cart[0].Price, "price is snapshotted from the product")
}

func TestApplyCartAddMergesExistingLine(t *testing.T) {
	p := testProduct(5, 100)
	cart := []CartItem{{ProductID: p.ID, Quantity: 2, Price: 90}}
	cart, err := applyCartAdd(cart, p, 3)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.Equal(t, 90.0, cart[0].Price, "merge keeps the original price snapshot")
}

func TestApplyCartAddOutOfStock(t *testing.T) {
	p := testProduct(0, 100)
	cart, err := applyCartAdd(nil, p, 1)
	assert.ErrorIs(t, err, errOutOfStock)
	assert.Empty(t, cart)
}

func TestApplyCartAddInsufficientStock(t *testing.T) {
	p := testProduct(3, 100)
	_, err := applyCartAdd(nil, p, 4)
	assert.ErrorIs(t, err, errInsufficientStock)
}

func TestApplyCartAddMergeExceedingStockLeavesCartUnchanged(t *testing.T) {
	p := testProduct(5, 100)
	cart := []CartItem{{ProductID: p.ID, Quantity: 4, Price: 100}}
	got, err := applyCartAdd(cart, p, 2)
	assert.ErrorIs(t, err, errInsufficientStock)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Quantity)
}

func TestApplyCartSetQuantity(t *testing.T) {
	p := testProduct(5, 100)
	cart := []CartItem{{ProductID: p.ID, Quantity: 1, Price: 100}}

	cart, err := applyCartSetQuantity(cart, p, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestApplyCartSetQuantityExceedingStock(t *testing.T) {
	p := testProduct(3, 100)
	cart := []CartItem{{ProductID: p.ID, Quantity: 1, Price: 100}}

	got, err := applyCartSetQuantity(cart, p, 7)
	require.Error(t, err)
	assert.EqualError(t, err, "Not enough stock. Only 3 available.")
	assert.Equal(t, 1, got[0].Quantity, "failed update must not mutate the line")
}

func TestApplyCartSetQuantityMissingLine(t *testing.T) {
	p := testProduct(3, 100)
	_, err := applyCartSetQuantity(nil, p, 1)
	assert.ErrorIs(t, err, errCartItemNotFound)
}

func TestRemoveCartLine(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	cart := []CartItem{
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 2},
	}
	got := removeCartLine(cart, a)
	require.Len(t, got, 1)
	assert.Equal(t, b, got[0].ProductID)

	// Removing an absent product is a silent no-op.
	got = removeCartLine(got, primitive.NewObjectID())
	assert.Len(t, got, 1)
}

func TestFindCartLine(t *testing.T) {
	a := primitive.NewObjectID()
	cart := []CartItem{{ProductID: a, Quantity: 1}}
	assert.Equal(t, 0, findCartLine(cart, a))
	assert.Equal(t, -1, findCartLine(cart, primitive.NewObjectID()))
}
