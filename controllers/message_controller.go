package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codefolio/db"
	"codefolio/internal/chat"
	"codefolio/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendMessage appends one direct message and publishes a delivery event
func SendMessage(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		To   string `json:"to" binding:"required,email"`
		Body string `json:"body" binding:"required,max=2000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}
	if req.To == email {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Message body is empty"})
		return
	}

	limiter := chat.NewRateLimiter()
	allowed, err := limiter.CheckMessageRateLimit(email, chat.DefaultRateLimitConfig())
	if err == nil && !allowed {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The recipient must exist.
	if _, err := db.GetUserByEmail(dbCtx, req.To); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	msg := models.Message{
		MessageID: uuid.NewString(),
		From:      email,
		To:        req.To,
		Body:      req.Body,
		SentAt:    time.Now().UTC(),
	}
	if err := db.SaveMessage(dbCtx, msg); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	if err := limiter.RecordMessage(email, chat.DefaultRateLimitConfig()); err != nil {
		log.Printf("Failed to record message for rate limiting: %v", err)
	}

	// Live delivery is best effort; the message is already persisted.
	event, err := chat.NewEvent("message", chat.MessagePayload{
		MessageID: msg.MessageID,
		From:      msg.From,
		To:        msg.To,
		Body:      msg.Body,
		SentAt:    msg.SentAt.Unix(),
	})
	if err == nil {
		if err := chat.PublishEvent(event); err != nil {
			log.Printf("Failed to publish delivery event: %v", err)
		}
	}

	ctx.JSON(http.StatusOK, msg)
}

// GetConversation returns the messages between the caller and another user,
// oldest first.
func GetConversation(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	other := ctx.Param("withUser")
	if other == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing user"})
		return
	}

	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "100"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	messages, err := db.GetConversation(dbCtx, email, other, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching conversation"})
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}
