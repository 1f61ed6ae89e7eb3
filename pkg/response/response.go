package response

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created sends a 201 response with the created resource
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error sends an error response. The underlying error is logged, not exposed.
func Error(c *gin.Context, code int, message string, err error) {
	if err != nil {
		log.Printf("[HTTP] %s %s -> %d: %v", c.Request.Method, c.Request.URL.Path, code, err)
	}
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}
