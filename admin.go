package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// ----- Admin: dashboard -----

// adminStats scans all orders, products and users and answers every
// dashboard figure in one response. Cost grows with collection size;
// fine at this scale.
func adminStats(c *gin.Context) {
	ctx := c.Request.Context()

	var orders []Order
	cur, err := db.Collection("orders").Find(ctx, bson.M{})
	if err != nil {
		fail(c, err)
		return
	}
	if err := cur.All(ctx, &orders); err != nil {
		fail(c, err)
		return
	}

	var products []Product
	cur, err = db.Collection("products").Find(ctx, bson.M{})
	if err != nil {
		fail(c, err)
		return
	}
	if err := cur.All(ctx, &products); err != nil {
		fail(c, err)
		return
	}

	var users []User
	cur, err = db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		fail(c, err)
		return
	}
	if err := cur.All(ctx, &users); err != nil {
		fail(c, err)
		return
	}

	delivered, paid, pending := orderStatusCounts(orders)
	totalSales := deliveredTotal(orders)
	avg := 0.0
	if len(orders) > 0 {
		// Delivered revenue over ALL orders, as the dashboard always
		// displayed it.
		avg = round2(totalSales / float64(len(orders)))
	}

	resp := gin.H{
		"salesByMonth": salesByMonth(orders),
		"statusCounts": gin.H{
			"delivered": delivered,
			"paid":      paid,
			"pending":   pending,
		},
		"totalSales":        totalSales,
		"totalOrders":       len(orders),
		"averageOrderValue": avg,
		"revenueByDay":      revenueByDay(orders, time.Now()),
		"topProducts":       topByReviews(products, 3),
		"topUsers":          newestUsers(users, 3),
	}
	if best, ok := mostSoldProduct(products, orders); ok {
		resp["mostSoldProduct"] = best
	} else {
		resp["mostSoldProduct"] = nil
	}
	c.JSON(http.StatusOK, resp)
}
