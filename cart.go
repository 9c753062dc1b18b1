package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart mutation helpers. Each takes the current lines and returns the new
// slice; on error the lines are returned unchanged. Writes always $set the
// whole array back, so concurrent requests from the same user are
// last-write-wins (known, preserved).

func findCartLine(cart []CartItem, productID primitive.ObjectID) int {
	for i, line := range cart {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func removeCartLine(cart []CartItem, productID primitive.ObjectID) []CartItem {
	out := cart[:0]
	for _, line := range cart {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

// applyCartAdd merges qty into an existing line or appends a new one with
// the product's current price frozen as the line price.
func applyCartAdd(cart []CartItem, p Product, qty int) ([]CartItem, error) {
	if p.CountInStock == 0 {
		return cart, errOutOfStock
	}
	if p.CountInStock < qty {
		return cart, errInsufficientStock
	}
	if i := findCartLine(cart, p.ID); i >= 0 {
		if p.CountInStock < cart[i].Quantity+qty {
			return cart, errInsufficientStock
		}
		cart[i].Quantity += qty
		return cart, nil
	}
	return append(cart, CartItem{ProductID: p.ID, Quantity: qty, Price: p.Price}), nil
}

// applyCartSetQuantity revalidates qty against live stock and sets it.
// Removal (qty <= 0) is handled by the caller before the product lookup.
func applyCartSetQuantity(cart []CartItem, p Product, qty int) ([]CartItem, error) {
	i := findCartLine(cart, p.ID)
	if i < 0 {
		return cart, errCartItemNotFound
	}
	if p.CountInStock < qty {
		return cart, badRequest("Not enough stock. Only %d available.", p.CountInStock)
	}
	cart[i].Quantity = qty
	return cart, nil
}

func saveCart(ctx context.Context, userID primitive.ObjectID, cart []CartItem) error {
	_, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID}, bson.M{"$set": bson.M{"cart": cart}})
	return err
}

// populateCart joins the referenced products into the cart lines. A line
// whose product has since been deleted comes back with a nil product.
func populateCart(ctx context.Context, cart []CartItem) ([]PopulatedCartItem, error) {
	out := make([]PopulatedCartItem, 0, len(cart))
	if len(cart) == 0 {
		return out, nil
	}
	ids := make([]primitive.ObjectID, 0, len(cart))
	for _, line := range cart {
		ids = append(ids, line.ProductID)
	}
	cur, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, line := range cart {
		out = append(out, PopulatedCartItem{
			Product:  byID[line.ProductID],
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return out, nil
}

func respondCart(c *gin.Context, cart []CartItem) {
	populated, err := populateCart(c.Request.Context(), cart)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, populated)
}

// ----- Cart -----

func getCart(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	respondCart(c, user.Cart)
}

func addToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Quantity < 1 {
		failMsg(c, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		fail(c, errProductNotFound)
		return
	}
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	var product Product
	if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		fail(c, errProductNotFound)
		return
	}
	cart, err := applyCartAdd(user.Cart, product, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	if err := saveCart(ctx, user.ID, cart); err != nil {
		fail(c, err)
		return
	}
	respondCart(c, cart)
}

func updateCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		fail(c, errCartItemNotFound)
		return
	}
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	if findCartLine(user.Cart, productID) < 0 {
		fail(c, errCartItemNotFound)
		return
	}
	ctx := c.Request.Context()
	cart := user.Cart
	if req.Quantity <= 0 {
		cart = removeCartLine(cart, productID)
	} else {
		var product Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			fail(c, errProductNotFound)
			return
		}
		cart, err = applyCartSetQuantity(cart, product, req.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
	}
	if err := saveCart(ctx, user.ID, cart); err != nil {
		fail(c, err)
		return
	}
	respondCart(c, cart)
}

func removeFromCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	// Removal is a silent no-op when the line (or even the id) is absent.
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	cart := removeCartLine(user.Cart, productID)
	if err := saveCart(c.Request.Context(), user.ID, cart); err != nil {
		fail(c, err)
		return
	}
	respondCart(c, cart)
}

func clearCart(c *gin.Context) {
	userID := currentUserID(c)
	if err := saveCart(c.Request.Context(), userID, []CartItem{}); err != nil {
		fail(c, err)
		return
	}
	respondCart(c, nil)
}
