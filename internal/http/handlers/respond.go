package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every error response on this API is {"error": <message>}. Keep the shape in
// one place so handlers cannot drift.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

// RespondInternal deliberately returns an opaque message; details stay in the
// server logs.
func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
