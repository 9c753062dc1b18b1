package main

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type JWTClaims struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.StandardClaims
}

func generateToken(user User) (string, error) {
	claims := JWTClaims{
		UserID:  user.ID.Hex(),
		IsAdmin: user.IsAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func authRequired(c *gin.Context) {
	tokenStr := c.GetHeader("Authorization")
	if len(tokenStr) < 8 || tokenStr[:7] != "Bearer " {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
		return
	}
	tokenStr = tokenStr[7:]
	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
		return
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
		return
	}
	c.Set("userId", claims.UserID)
	c.Set("isAdmin", claims.IsAdmin)
	c.Next()
}

// adminRequired answers 401 (not 403) for non-admins, matching the rest
// of the auth failures.
func adminRequired(c *gin.Context) {
	if !c.GetBool("isAdmin") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized as an admin"})
		return
	}
	c.Next()
}

func currentUserID(c *gin.Context) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(c.GetString("userId"))
	return id
}

func currentUser(c *gin.Context) (User, error) {
	var user User
	err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": currentUserID(c)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return user, errUserNotFound
	}
	return user, err
}

// ----- Auth -----

func register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		failMsg(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	ctx := c.Request.Context()
	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		fail(c, err)
		return
	}
	if count > 0 {
		failMsg(c, http.StatusBadRequest, "Email already registered")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}
	user := User{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  string(hashed),
		Cart:      []CartItem{},
		Wishlist:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	res, err := db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		fail(c, err)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	user.Password = ""
	c.JSON(http.StatusCreated, user)
}

func login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	var user User
	err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		failMsg(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		failMsg(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	tokenStr, err := generateToken(user)
	if err != nil {
		fail(c, err)
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"user": user, "token": tokenStr})
}

// ----- Profile -----

func getProfile(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func updateProfile(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if len(update) > 0 {
		_, err := db.Collection("users").UpdateOne(c.Request.Context(),
			bson.M{"_id": currentUserID(c)}, bson.M{"$set": update})
		if err != nil {
			fail(c, err)
			return
		}
	}
	getProfile(c)
}

// ----- Admin: users -----

func listUsers(c *gin.Context) {
	cur, err := db.Collection("users").Find(c.Request.Context(), bson.M{})
	if err != nil {
		fail(c, err)
		return
	}
	users := []User{}
	if err := cur.All(c.Request.Context(), &users); err != nil {
		fail(c, err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, users)
}

func getUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errUserNotFound)
		return
	}
	var user User
	if err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&user); err != nil {
		fail(c, errUserNotFound)
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func updateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errUserNotFound)
		return
	}
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "Invalid input")
		return
	}
	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.IsAdmin != nil {
		update["isAdmin"] = *req.IsAdmin
	}
	if len(update) > 0 {
		res, err := db.Collection("users").UpdateOne(c.Request.Context(),
			bson.M{"_id": id}, bson.M{"$set": update})
		if err != nil {
			fail(c, err)
			return
		}
		if res.MatchedCount == 0 {
			fail(c, errUserNotFound)
			return
		}
	}
	var user User
	if err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&user); err != nil {
		fail(c, errUserNotFound)
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func deleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, errUserNotFound)
		return
	}
	res, err := db.Collection("users").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		fail(c, err)
		return
	}
	if res.DeletedCount == 0 {
		fail(c, errUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}
