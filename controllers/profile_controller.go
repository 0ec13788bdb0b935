package controllers

import (
	"context"
	"net/http"
	"time"

	"codefolio/db"
	"codefolio/models"
	"codefolio/services"
	"codefolio/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProfile retrieves and returns user profile data
func GetProfile(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.MongoDatabase.Collection("users").FindOne(dbCtx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// Set avatar URL with DiceBear fallback
	avatarURL := user.AvatarURL
	if avatarURL == "" {
		name := user.DisplayName
		if name == "" {
			name = utils.ExtractNameFromEmail(email)
		}
		avatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
	}

	if user.Platforms == nil {
		user.Platforms = models.PlatformUsernames{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"displayName": user.DisplayName,
			"email":       user.Email,
			"bio":         user.Bio,
			"avatarUrl":   avatarURL,
			"platforms":   user.Platforms,
		},
	})
}

// UpdateProfile modifies user display name, bio, and avatar
func UpdateProfile(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Missing user email in context"})
		return
	}

	var updateData struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
		AvatarURL   string `json:"avatarUrl"`
	}
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"email": email}
	update := bson.M{"$set": bson.M{
		"displayName": updateData.DisplayName,
		"bio":         updateData.Bio,
		"avatarUrl":   updateData.AvatarURL,
		"updatedAt":   time.Now().UTC(),
	}}
	_, err := db.MongoDatabase.Collection("users").UpdateOne(dbCtx, filter, update)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// UpdatePlatform links or changes one platform handle. With verify=true the
// handle is checked upstream first; a handle that cannot be verified is
// rejected with a clear "could not verify" message rather than treated as a
// security failure.
func UpdatePlatform(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Platform models.Platform `json:"platform" binding:"required"`
		Username string          `json:"username" binding:"required"`
		Verify   bool            `json:"verify"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}
	if !req.Platform.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}

	stats := services.GetStatsService()
	if req.Verify && !stats.Verify(ctx.Request.Context(), req.Platform, req.Username) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Could not verify username",
			"message": "The handle could not be confirmed on " + string(req.Platform),
		})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.SetPlatformUsername(dbCtx, email, req.Platform, req.Username); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// The cached entry for this platform now points at the old handle.
	stats.InvalidatePlatform(email, req.Platform)

	ctx.JSON(http.StatusOK, gin.H{"message": "Platform linked"})
}

// UnlinkPlatform removes one platform handle and clears its cached stats
func UnlinkPlatform(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	platform := models.Platform(ctx.Param("platform"))
	if !platform.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.SetPlatformUsername(dbCtx, email, platform, ""); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	services.GetStatsService().InvalidatePlatform(email, platform)

	ctx.JSON(http.StatusOK, gin.H{"message": "Platform unlinked"})
}

// ExportProfile streams the profile plus the latest aggregated stats as a
// JSON or CSV download.
func ExportProfile(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := db.GetUserByEmail(dbCtx, email)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	stats, err := services.GetStatsService().StatsForUser(ctx.Request.Context(), email, false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error aggregating stats"})
		return
	}

	switch ctx.DefaultQuery("format", "json") {
	case "json":
		ctx.Header("Content-Disposition", `attachment; filename="codefolio-export.json"`)
		ctx.JSON(http.StatusOK, gin.H{"profile": user, "stats": stats})
	case "csv":
		data, err := utils.ExportStatsCSV(user, stats)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error building export"})
			return
		}
		ctx.Header("Content-Disposition", `attachment; filename="codefolio-export.csv"`)
		ctx.Data(http.StatusOK, "text/csv", data)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format"})
	}
}
