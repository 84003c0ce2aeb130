package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"creator_support/internal/domain"
	"creator_support/internal/store"
	"creator_support/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const profileCacheTTL = 60 * time.Second

func profileCacheKey(userID uint) string {
	return fmt.Sprintf("profile:user:%d", userID)
}

// CreateProfileRequest is the onboarding profile form
type CreateProfileRequest struct {
	Name            string `json:"name"`
	About           string `json:"about"`
	AvatarImage     string `json:"avatarImage"`
	SocialMediaURL  string `json:"socialMediaUrl"`
	BackgroundImage string `json:"backgroundImage"`
	SuccessMessage  string `json:"successMessage"`
	UserID          ID     `json:"userId"`
}

// CreateProfileHandler creates the single profile a user may own
func CreateProfileHandler(users UserStore, profiles ProfileStore, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" || req.UserID == 0 {
			respondError(c, &HTTPError{
				Status:  http.StatusBadRequest,
				Message: "Name and userId are required",
				Code:    CodeMissingFields,
			})
			return
		}
		ctx := c.Request.Context()
		userID := uint(req.UserID)

		if _, err := users.FindUserByID(ctx, userID); errors.Is(err, store.ErrNotFound) {
			respondError(c, notFound("User not found", CodeUserNotFound))
			return
		} else if err != nil {
			respondError(c, internalError("Failed to load user", err))
			return
		}
		// Fast path only; idx_profiles_user_id is what actually prevents a second profile
		if _, err := profiles.ProfileByUserID(ctx, userID); err == nil {
			respondError(c, conflict(http.StatusConflict, "Profile already exists for this user", CodeProfileExists, "userId", nil))
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			respondError(c, internalError("Failed to check profile", err))
			return
		}

		profile := domain.Profile{
			Name:            strings.TrimSpace(req.Name),
			About:           req.About,
			AvatarImage:     req.AvatarImage,
			SocialMediaURL:  req.SocialMediaURL,
			BackgroundImage: req.BackgroundImage,
			SuccessMessage:  req.SuccessMessage,
			UserID:          userID,
		}
		if err := profiles.CreateProfile(ctx, &profile); err != nil {
			switch {
			case store.IsUnique(err, ""):
				respondError(c, conflict(http.StatusConflict, "Profile already exists for this user", CodeProfileExists, "userId", err))
			case store.IsForeignKey(err):
				respondError(c, conflict(http.StatusBadRequest, "User does not exist", CodeForeignKey, "userId", err))
			default:
				respondError(c, internalError("Failed to create profile", err))
			}
			return
		}
		dropCache(c, cache, profileCacheKey(userID))
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"profile_id": profile.ID,
		}).Info("Profile created")
		c.JSON(http.StatusCreated, gin.H{"message": "Profile created successfully", "data": profile})
	}
}

// GetProfileHandler serves the public profile page data
func GetProfileHandler(profiles ProfileStore, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			respondError(c, validationError("Invalid user id", "userId"))
			return
		}
		ctx := c.Request.Context()
		key := profileCacheKey(userID)
		var cached domain.Profile
		if found, err := cache.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		profile, err := profiles.ProfileByUserID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, notFound("Profile not found", CodeNotFound))
			return
		}
		if err != nil {
			respondError(c, internalError("Failed to load profile", err))
			return
		}
		if err := cache.Set(ctx, key, profile, profileCacheTTL); err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to cache profile")
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateProfileHandler changes only the fields present in the body
func UpdateProfileHandler(profiles ProfileStore, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			respondError(c, validationError("Invalid user id", "userId"))
			return
		}
		var upd domain.ProfileUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			respondError(c, validationError("Invalid request body", ""))
			return
		}
		if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
			respondError(c, validationError("Name cannot be empty", "name"))
			return
		}
		profile, err := profiles.UpdateProfile(c.Request.Context(), userID, upd)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				respondError(c, notFound("Profile not found", CodeNotFound))
			case store.IsUnique(err, ""):
				respondError(c, duplicateField(err))
			default:
				respondError(c, internalError("Failed to update profile", err))
			}
			return
		}
		dropCache(c, cache, profileCacheKey(userID))
		c.JSON(http.StatusOK, gin.H{"user": profile})
	}
}

// dropCache removes stale entries; a cache failure never fails the write that caused it
func dropCache(c *gin.Context, cache utils.Cache, keys ...string) {
	if err := cache.Delete(c.Request.Context(), keys...); err != nil {
		logrus.WithFields(logrus.Fields{
			"keys":  keys,
			"error": err.Error(),
		}).Warn("Failed to invalidate cache")
	}
}
