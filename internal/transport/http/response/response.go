package response

import "github.com/gin-gonic/gin"

// Detail is the error body: every failed request carries a single
// human-readable string.
type Detail struct {
	Detail string `json:"detail"`
}

// Message is the body of mutations that return no resource.
type Message struct {
	Message string `json:"message"`
}

func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, Detail{Detail: detail})
}

func OK(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}
