package main

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderInput struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
}

// checkPriceBreakdown rejects a breakdown whose total does not match the
// component sum, so every stored order satisfies
// totalPrice == itemsPrice + taxPrice + shippingPrice.
func checkPriceBreakdown(items, tax, shipping, total float64) error {
	if math.Abs(items+tax+shipping-total) > 0.01 {
		return badRequest("Order total does not match price breakdown")
	}
	return nil
}

// applyStatusChange enforces the order lifecycle: pending may go to
// delivered or cancelled, nothing moves after that. Cancellation never
// touches stock; decrements happen only at placement.
func applyStatusChange(o *Order, status, cancelReason string, now time.Time) error {
	if o.Status != statusPending {
		return badRequest("Order is already %s", o.Status)
	}
	switch status {
	case statusDelivered:
		o.Status = statusDelivered
		o.IsDelivered = true
		o.DeliveredAt = &now
		o.CancelReason = ""
	case statusCancelled:
		if cancelReason == "" {
			return badRequest("Cancel reason is required")
		}
		o.Status = statusCancelled
		o.CancelReason = cancelReason
	default:
		return errInvalidStatus
	}
	return nil
}

// applyPayment marks the order paid and records what the provider sent
// back. The status string is untouched; isPaid is a flag beside it.
func applyPayment(o *Order, result PaymentResult, now time.Time) {
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
}

// ----- Orders -----

func placeOrder(c *gin.Context) {
	var req orderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(req.OrderItems) == 0 {
		fail(c, errEmptyOrder)
		return
	}
	if err := checkPriceBreakdown(req.ItemsPrice, req.TaxPrice, req.ShippingPrice, req.TotalPrice); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	// Check and decrement stock item by item. A failure partway leaves
	// the earlier decrements in place; there is no rollback.
	for _, item := range req.OrderItems {
		var product Product
		err := db.Collection("products").FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product)
		if err != nil {
			fail(c, notFound("Product not found: %s", item.Name))
			return
		}
		if product.CountInStock < item.Qty {
			fail(c, badRequest("Not enough stock for product: %s", item.Name))
			return
		}
		_, err = db.Collection("products").UpdateOne(ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"countInStock": -item.Qty}})
		if err != nil {
			fail(c, err)
			return
		}
	}

	order := Order{
		UserID:          currentUserID(c),
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		Status:          statusPending,
		CreatedAt:       time.Now(),
	}
	res, err := db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		fail(c, err)
		return
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, order)
}

func getOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errOrderNotFound)
		return
	}
	var order Order
	if err := db.Collection("orders").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&order); err != nil {
		fail(c, errOrderNotFound)
		return
	}
	c.JSON(http.StatusOK, order)
}

func myOrders(c *gin.Context) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.Collection("orders").Find(c.Request.Context(),
		bson.M{"user": currentUserID(c)}, opts)
	if err != nil {
		fail(c, err)
		return
	}
	orders := []Order{}
	if err := cur.All(c.Request.Context(), &orders); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func listOrders(c *gin.Context) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.Collection("orders").Find(c.Request.Context(), bson.M{}, opts)
	if err != nil {
		fail(c, err)
		return
	}
	orders := []Order{}
	if err := cur.All(c.Request.Context(), &orders); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func payOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errOrderNotFound)
		return
	}
	var req PaymentResult
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	ctx := c.Request.Context()
	var order Order
	if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		fail(c, errOrderNotFound)
		return
	}
	applyPayment(&order, req, time.Now())
	update := bson.M{"$set": bson.M{
		"isPaid":        order.IsPaid,
		"paidAt":        order.PaidAt,
		"paymentResult": order.PaymentResult,
	}}
	if _, err := db.Collection("orders").UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func updateOrderStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errOrderNotFound)
		return
	}
	var req struct {
		Status       string `json:"status"`
		CancelReason string `json:"cancelReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	ctx := c.Request.Context()
	var order Order
	if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		fail(c, errOrderNotFound)
		return
	}
	if err := applyStatusChange(&order, req.Status, req.CancelReason, time.Now()); err != nil {
		fail(c, err)
		return
	}
	update := bson.M{"$set": bson.M{
		"status":       order.Status,
		"isDelivered":  order.IsDelivered,
		"deliveredAt":  order.DeliveredAt,
		"cancelReason": order.CancelReason,
	}}
	if _, err := db.Collection("orders").UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
