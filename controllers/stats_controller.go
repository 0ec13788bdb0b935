package controllers

import (
	"errors"
	"net/http"

	"codefolio/models"
	"codefolio/platforms"
	"codefolio/services"

	"github.com/gin-gonic/gin"
)

// GetMyStats returns the aggregated dashboard payload for the current user.
// The session cache is served when populated; ?refresh=true forces a full
// re-aggregation.
func GetMyStats(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	refresh := ctx.Query("refresh") == "true"
	stats, err := services.GetStatsService().StatsForUser(ctx.Request.Context(), email, refresh)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error aggregating stats", "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// GetPublicStats returns one platform's stats for an arbitrary handle,
// used for viewing another user's public profile.
func GetPublicStats(ctx *gin.Context) {
	platform := models.Platform(ctx.Param("platform"))
	username := ctx.Param("username")

	if !platform.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}
	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	stats, err := services.GetStatsService().PublicStats(ctx.Request.Context(), platform, username)
	if err != nil {
		var fe *platforms.FetchError
		if errors.As(err, &fe) {
			status := http.StatusBadGateway
			if fe.Kind == platforms.ErrKindShape {
				status = http.StatusUnprocessableEntity
			}
			ctx.JSON(status, gin.H{"error": "Failed to fetch stats", "platform": fe.Platform, "message": fe.Cause})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// VerifyHandle answers inline verification requests during profile editing.
// The response is advisory; a false never blocks saving without verify.
func VerifyHandle(ctx *gin.Context) {
	platform := models.Platform(ctx.Param("platform"))
	username := ctx.Param("username")

	if !platform.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}

	exists := services.GetStatsService().Verify(ctx.Request.Context(), platform, username)
	ctx.JSON(http.StatusOK, gin.H{"platform": platform, "username": username, "exists": exists})
}
