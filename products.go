package main

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pageSize = 12

// productFilter builds the ANDed catalog filter from raw query values.
// The keyword is OR-matched case-insensitively across name, brand,
// category and description. Unparseable numbers are treated as absent.
func productFilter(keyword, category, brand, minPrice, maxPrice, minRating string) bson.M {
	filter := bson.M{}
	if keyword != "" {
		re := primitive.Regex{Pattern: keyword, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"brand": re},
			bson.M{"category": re},
			bson.M{"description": re},
		}
	}
	if category != "" {
		filter["category"] = category
	}
	if brand != "" {
		filter["brand"] = brand
	}
	price := bson.M{}
	if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
		price["$gte"] = v
	}
	if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
		price["$lte"] = v
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if v, err := strconv.ParseFloat(minRating, 64); err == nil {
		filter["rating"] = bson.M{"$gte": v}
	}
	return filter
}

func productSort(sortBy string) bson.D {
	switch sortBy {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating_desc":
		return bson.D{{Key: "rating", Value: -1}}
	case "name_asc":
		return bson.D{{Key: "name", Value: 1}}
	case "name_desc":
		return bson.D{{Key: "name", Value: -1}}
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	default: // newest
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func parsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func totalPages(count int64) int {
	return int(math.Ceil(float64(count) / float64(pageSize)))
}

// pageSkip is the offset into the result set for a 1-based page number.
func pageSkip(page int) int64 {
	return int64(pageSize * (page - 1))
}

// ----- Catalog -----

func listProducts(c *gin.Context) {
	filter := productFilter(
		c.Query("keyword"),
		c.Query("category"),
		c.Query("brand"),
		c.Query("minPrice"),
		c.Query("maxPrice"),
		c.Query("minRating"),
	)
	page := parsePage(c.Query("pageNumber"))
	ctx := c.Request.Context()

	count, err := db.Collection("products").CountDocuments(ctx, filter)
	if err != nil {
		fail(c, err)
		return
	}
	opts := options.Find().
		SetSort(productSort(c.Query("sortBy"))).
		SetLimit(pageSize).
		SetSkip(pageSkip(page))
	cur, err := db.Collection("products").Find(ctx, filter, opts)
	if err != nil {
		fail(c, err)
		return
	}
	products := []Product{}
	if err := cur.All(ctx, &products); err != nil {
		fail(c, err)
		return
	}
	// Unrated products list as 5 stars; the stored value stays untouched.
	for i := range products {
		if products[i].Rating == 0 {
			products[i].Rating = 5
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"page":     page,
		"pages":    totalPages(count),
		"total":    count,
	})
}

func getProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errProductNotFound)
		return
	}
	var product Product
	if err := db.Collection("products").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&product); err != nil {
		fail(c, errProductNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

func topProducts(c *gin.Context) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(3)
	cur, err := db.Collection("products").Find(c.Request.Context(), bson.M{}, opts)
	if err != nil {
		fail(c, err)
		return
	}
	products := []Product{}
	if err := cur.All(c.Request.Context(), &products); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func featuredProducts(c *gin.Context) {
	opts := options.Find().SetLimit(4)
	cur, err := db.Collection("products").Find(c.Request.Context(), bson.M{"featured": true}, opts)
	if err != nil {
		fail(c, err)
		return
	}
	products := []Product{}
	if err := cur.All(c.Request.Context(), &products); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func listBrands(c *gin.Context)     { listDistinct(c, "brand") }
func listCategories(c *gin.Context) { listDistinct(c, "category") }

func listDistinct(c *gin.Context, field string) {
	values, err := db.Collection("products").Distinct(c.Request.Context(), field, bson.M{})
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	c.JSON(http.StatusOK, out)
}

// ----- Admin: catalog writes -----

type productInput struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Featured     bool    `json:"featured"`
}

func createProduct(c *gin.Context) {
	var req productInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	product := Product{
		Name:         req.Name,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		Description:  req.Description,
		Price:        req.Price,
		CountInStock: req.CountInStock,
		Featured:     req.Featured,
		Rating:       5,
		NumReviews:   0,
		CreatedAt:    time.Now(),
	}
	if product.Name == "" {
		product.Name = "Sample name"
	}
	if product.Image == "" {
		product.Image = "/images/sample.jpg"
	}
	if product.Brand == "" {
		product.Brand = "Sample brand"
	}
	if product.Category == "" {
		product.Category = "Sample category"
	}
	if product.Description == "" {
		product.Description = "Sample description"
	}
	res, err := db.Collection("products").InsertOne(c.Request.Context(), product)
	if err != nil {
		fail(c, err)
		return
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, product)
}

func updateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errProductNotFound)
		return
	}
	var req productInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	ctx := c.Request.Context()
	update := bson.M{"$set": bson.M{
		"name":         req.Name,
		"image":        req.Image,
		"brand":        req.Brand,
		"category":     req.Category,
		"description":  req.Description,
		"price":        req.Price,
		"countInStock": req.CountInStock,
		"featured":     req.Featured,
	}}
	res, err := db.Collection("products").UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		fail(c, err)
		return
	}
	if res.MatchedCount == 0 {
		fail(c, errProductNotFound)
		return
	}
	var product Product
	if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		fail(c, errProductNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

func deleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errProductNotFound)
		return
	}
	res, err := db.Collection("products").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		fail(c, err)
		return
	}
	if res.DeletedCount == 0 {
		fail(c, errProductNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}
