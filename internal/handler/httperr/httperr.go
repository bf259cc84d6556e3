// Package httperr defines the error envelope every endpoint returns.
package httperr

import "github.com/gin-gonic/gin"

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AbortWithError records err for the logging middleware and writes the
// envelope. Internal detail stays in the log; the client sees only the
// stable code and message.
func AbortWithError(c *gin.Context, status int, code, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Response{Code: code, Message: message})
}
