package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	db  *mongo.Database
	cfg Config
)

func main() {
	cfg = loadConfig()

	client, err := mongo.NewClient(options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		log.Fatal(err)
	}
	db = client.Database(cfg.MongoDB)
	log.Println("Connected to MongoDB, database:", cfg.MongoDB)

	r := newRouter()
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}

func newRouter() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	r.POST("/api/users/register", register)
	r.POST("/api/users/auth", login)
	r.GET("/api/products", listProducts)
	r.GET("/api/products/top", topProducts)
	r.GET("/api/products/featured", featuredProducts)
	r.GET("/api/products/brands", listBrands)
	r.GET("/api/products/categories", listCategories)
	r.GET("/api/products/:id", getProduct)
	r.GET("/api/reviews/:productId", listReviews)

	auth := r.Group("/api", authRequired)
	{
		auth.GET("/users/profile", getProfile)
		auth.PUT("/users/profile", updateProfile)

		// Cart
		auth.GET("/cart", getCart)
		auth.POST("/cart/add", addToCart)
		auth.PUT("/cart/update", updateCartItem)
		auth.DELETE("/cart/remove", removeFromCart)
		auth.DELETE("/cart/clear", clearCart)

		// Wishlist
		auth.GET("/wishlist", getWishlist)
		auth.POST("/wishlist", addToWishlist)
		auth.DELETE("/wishlist/:productId", removeFromWishlist)

		// Orders
		auth.POST("/orders", placeOrder)
		auth.GET("/orders/myorders", myOrders)
		auth.GET("/orders/:id", getOrder)
		auth.PUT("/orders/:id/pay", payOrder)

		// Reviews
		auth.POST("/reviews/:productId", addReview)
	}

	admin := r.Group("/api", authRequired, adminRequired)
	{
		admin.POST("/products", createProduct)
		admin.PUT("/products/:id", updateProduct)
		admin.DELETE("/products/:id", deleteProduct)

		admin.GET("/orders", listOrders)
		admin.PUT("/orders/:id/status", updateOrderStatus)

		admin.GET("/users", listUsers)
		admin.GET("/users/:id", getUser)
		admin.PUT("/users/:id", updateUser)
		admin.DELETE("/users/:id", deleteUser)

		admin.GET("/admin/stats", adminStats)
	}

	return r
}
