package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiError pairs a message with the HTTP status it should surface as.
// Every error response in the API has the shape {"message": string}.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

var (
	errProductNotFound   = &apiError{http.StatusNotFound, "Product not found"}
	errOutOfStock        = &apiError{http.StatusBadRequest, "Product is out of stock"}
	errInsufficientStock = &apiError{http.StatusBadRequest, "Not enough stock available"}
	errCartItemNotFound  = &apiError{http.StatusNotFound, "Cart item not found"}
	errEmptyOrder        = &apiError{http.StatusBadRequest, "No order items"}
	errOrderNotFound     = &apiError{http.StatusNotFound, "Order not found"}
	errInvalidStatus     = &apiError{http.StatusBadRequest, "Invalid status"}
	errAlreadyReviewed   = &apiError{http.StatusBadRequest, "You have already reviewed this product"}
	errAlreadyWishlisted = &apiError{http.StatusBadRequest, "Product already in wishlist"}
	errUserNotFound      = &apiError{http.StatusNotFound, "User not found"}
)

func badRequest(format string, args ...interface{}) *apiError {
	return &apiError{http.StatusBadRequest, fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) *apiError {
	return &apiError{http.StatusNotFound, fmt.Sprintf(format, args...)}
}

// fail writes err as a JSON error response. Unrecognized errors fall
// through as 500 with the raw message.
func fail(c *gin.Context, err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		c.JSON(ae.status, gin.H{"message": ae.message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

func failMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
