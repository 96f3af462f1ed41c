package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"

	"questhero/db"
	"questhero/internal/limiter"
	"questhero/services"

	"github.com/gin-gonic/gin"
)

// maxPhotoBytes caps how much photo data is read into memory for
// classification.
const maxPhotoBytes = 10 << 20

var submissionLimiter *limiter.SubmissionLimiter
var submissionLimit = limiter.DefaultConfig()

// InitVerificationController wires the submission rate limiter.
func InitVerificationController(maxPerMinute int) {
	submissionLimiter = limiter.NewSubmissionLimiter()
	if maxPerMinute > 0 {
		submissionLimit.MaxSubmissions = maxPerMinute
	}
}

// VerifyQuestSubmission handles a proof submission: it validates the
// multipart form, runs the verification engine and returns its decision.
func VerifyQuestSubmission(c *gin.Context) {
	questID := c.Param("id")
	userQuestID := c.PostForm("userQuestId")
	imageURL := c.PostForm("imageUrl")

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if questID == "" || userQuestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	latitude, latErr := strconv.ParseFloat(c.PostForm("latitude"), 64)
	longitude, lonErr := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if latErr != nil || lonErr != nil ||
		math.IsNaN(latitude) || math.IsInf(latitude, 0) ||
		math.IsNaN(longitude) || math.IsInf(longitude, 0) ||
		latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}

	if !submissionLimiter.Allow(userID, submissionLimit) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}

	req := services.VerifyRequest{
		QuestID:     questID,
		UserID:      userID,
		UserQuestID: userQuestID,
		ImageURL:    imageURL,
		Latitude:    latitude,
		Longitude:   longitude,
	}

	if file, header, err := c.Request.FormFile("photo"); err == nil {
		defer file.Close()
		req.PhotoSize = header.Size

		data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
			return
		}
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		req.PhotoDataURI = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	}

	result, err := services.GetVerificationService().Verify(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quest not found"})
			return
		}
		log.Printf("Verification error for quest %s: %v", questID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
