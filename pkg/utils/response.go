package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope shared by every endpoint.
type Response struct {
	Success    bool        `json:"success"`
	Count      *int        `json:"count,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Token      string      `json:"token,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func ListResponse(c *gin.Context, status, count int, pagination, data interface{}) {
	c.JSON(status, Response{
		Success:    true,
		Count:      &count,
		Pagination: pagination,
		Data:       data,
	})
}

func TokenResponse(c *gin.Context, status int, token string) {
	c.JSON(status, Response{Success: true, Token: token})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}
