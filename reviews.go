package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ratingStats recomputes the product aggregate over the full review set.
// An empty set yields a zero average, matching how the aggregate is
// initialized.
func ratingStats(reviews []Review) (numReviews int, rating float64) {
	numReviews = len(reviews)
	if numReviews == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return numReviews, float64(sum) / float64(numReviews)
}

// ----- Reviews -----

func addReview(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, errProductNotFound)
		return
	}
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		failMsg(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if req.Comment == "" {
		failMsg(c, http.StatusBadRequest, "Comment is required")
		return
	}
	ctx := c.Request.Context()
	var product Product
	if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		fail(c, errProductNotFound)
		return
	}
	userID := currentUserID(c)

	// Best-effort duplicate guard: a query, not a unique index, so two
	// concurrent submissions from the same user can both pass.
	err = db.Collection("reviews").FindOne(ctx,
		bson.M{"product": productID, "user": userID}).Err()
	if err == nil {
		fail(c, errAlreadyReviewed)
		return
	}
	if err != mongo.ErrNoDocuments {
		fail(c, err)
		return
	}

	review := Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	res, err := db.Collection("reviews").InsertOne(ctx, review)
	if err != nil {
		fail(c, err)
		return
	}
	review.ID = res.InsertedID.(primitive.ObjectID)

	// Full rescan, then a second write to the product. The two writes are
	// not atomic with respect to each other.
	cur, err := db.Collection("reviews").Find(ctx, bson.M{"product": productID})
	if err != nil {
		fail(c, err)
		return
	}
	var reviews []Review
	if err := cur.All(ctx, &reviews); err != nil {
		fail(c, err)
		return
	}
	numReviews, rating := ratingStats(reviews)
	_, err = db.Collection("products").UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"numReviews": numReviews, "rating": rating}})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func listReviews(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, errProductNotFound)
		return
	}
	ctx := c.Request.Context()
	cur, err := db.Collection("reviews").Find(ctx, bson.M{"product": productID})
	if err != nil {
		fail(c, err)
		return
	}
	var reviews []Review
	if err := cur.All(ctx, &reviews); err != nil {
		fail(c, err)
		return
	}
	out := make([]PopulatedReview, 0, len(reviews))
	if len(reviews) == 0 {
		c.JSON(http.StatusOK, out)
		return
	}
	userIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
	}
	ucur, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		fail(c, err)
		return
	}
	var users []User
	if err := ucur.All(ctx, &users); err != nil {
		fail(c, err)
		return
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for _, r := range reviews {
		out = append(out, PopulatedReview{Review: r, UserName: names[r.UserID]})
	}
	c.JSON(http.StatusOK, out)
}
