package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The two-field success/failure envelope is the contract external callers
// rely on; field names and messages are load-bearing.

type SuccessEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type FailureEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func RespondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessEnvelope{Message: "success", Data: data})
}

func RespondFailure(c *gin.Context, status int, message string, err error) {
	env := FailureEnvelope{Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	c.JSON(status, env)
}
