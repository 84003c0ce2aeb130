package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token lifetime and password timestamps

	"creator_support/internal/domain"     // Importing domain models
	"creator_support/internal/metrics"    // Prometheus counters
	"creator_support/internal/middleware" // Authenticated user id
	"creator_support/internal/store"      // Store sentinel errors
	"creator_support/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// AuthConfig holds what the auth handlers need to issue tokens and hash passwords
type AuthConfig struct {
	Secret     string        // JWT signing key
	TTL        time.Duration // Token lifetime
	BcryptCost int           // Password hashing cost
}

// Request struct for sign up
type SignUpRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for sign in
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for password change
type ChangePasswordRequest struct {
	UserID          ID     `json:"userId"`                             // Optional, the path wins
	CurrentPassword string `json:"currentPassword" binding:"required"` // Current password must be provided
	NewPassword     string `json:"newPassword" binding:"required"`     // New password must be provided
}

// Request struct for username availability
type CheckUsernameRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
}

// Response struct for authentication
type AuthResponse struct {
	User  *domain.User `json:"user"`  // User graph without password
	Token string       `json:"token"` // JWT token
}

// Sign-in failures share one message so callers cannot probe which emails exist
const invalidCredentials = "Username or password invalid"

// SignUpHandler registers a user and returns the user with a fresh token
func SignUpHandler(users UserStore, auth AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Username, email and password are required", ""))
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Username == "" || req.Email == "" {
			respondError(c, validationError("Username, email and password are required", ""))
			return
		}
		// No account is created when no token could be issued for it
		if auth.Secret == "" {
			respondError(c, tokenError(utils.ErrMissingSecret))
			return
		}
		ctx := c.Request.Context()
		// Friendly duplicate messages; the unique indexes still decide
		if taken, err := users.EmailExists(ctx, req.Email); err != nil {
			respondError(c, internalError("Failed to check email", err))
			return
		} else if taken {
			respondError(c, conflict(http.StatusBadRequest, "Email already exists", CodeDuplicate, "email", nil))
			return
		}
		if taken, err := users.UsernameExists(ctx, req.Username); err != nil {
			respondError(c, internalError("Failed to check username", err))
			return
		} else if taken {
			respondError(c, conflict(http.StatusBadRequest, "Username already exists", CodeDuplicate, "username", nil))
			return
		}
		// Hash the password and create the user
		hash, err := utils.HashPassword(req.Password, auth.BcryptCost)
		if err != nil {
			respondError(c, internalError("Failed to hash password", err))
			return
		}
		user := domain.User{Username: req.Username, Email: req.Email, Password: hash}
		if err := users.CreateUser(ctx, &user); err != nil {
			// A concurrent sign-up won the race for the same email or username
			if dup := duplicateField(err); dup != nil {
				respondError(c, dup)
				return
			}
			respondError(c, internalError("Failed to create user", err))
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.TokenVersion, auth.Secret, auth.TTL)
		if err != nil {
			respondError(c, tokenError(err))
			return
		}
		graph, err := users.UserGraph(ctx, user.ID)
		if err != nil {
			graph = &user // The row exists; relations are simply empty
		}
		metrics.RecordSignup()
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User signed up")
		c.JSON(http.StatusCreated, AuthResponse{User: graph, Token: token})
	}
}

// SignInHandler authenticates a user and returns the user graph with a token
func SignInHandler(users UserStore, auth AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignInRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Email and password are required", ""))
			return
		}
		ctx := c.Request.Context()
		user, err := users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordSignin("failure")
			respondError(c, unauthorized(invalidCredentials))
			return
		}
		if err != nil {
			respondError(c, internalError("Failed to load user", err))
			return
		}
		// Compare provided password with stored hash
		if !utils.CheckPassword(user.Password, req.Password) {
			metrics.RecordSignin("failure")
			respondError(c, unauthorized(invalidCredentials))
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.TokenVersion, auth.Secret, auth.TTL)
		if err != nil {
			respondError(c, tokenError(err))
			return
		}
		graph, err := users.UserGraph(ctx, user.ID)
		if err != nil {
			respondError(c, internalError("Failed to load user", err))
			return
		}
		metrics.RecordSignin("success")
		c.JSON(http.StatusOK, AuthResponse{User: graph, Token: token})
	}
}

// GetMeHandler returns the authenticated user's graph
func GetMeHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Set by JWTAuthMiddleware
		if !ok {
			respondError(c, unauthorized("Unauthenticated"))
			return
		}
		user, err := users.UserGraph(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, notFound("User not found", CodeUserNotFound))
			return
		}
		if err != nil {
			respondError(c, internalError("Failed to load user", err))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ChangePasswordHandler replaces the password after checking the current one
func ChangePasswordHandler(users UserStore, auth AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			respondError(c, validationError("Invalid user id", "userId"))
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Current and new password are required", ""))
			return
		}
		ctx := c.Request.Context()
		user, err := users.FindUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, notFound("User not found", CodeUserNotFound))
			return
		}
		if err != nil {
			respondError(c, internalError("Failed to load user", err))
			return
		}
		if !utils.CheckPassword(user.Password, req.CurrentPassword) {
			respondError(c, &HTTPError{
				Status:  http.StatusBadRequest,
				Message: "Current password is incorrect",
				Code:    CodeIncorrectPassword,
				Field:   "currentPassword",
			})
			return
		}
		hash, err := utils.HashPassword(req.NewPassword, auth.BcryptCost)
		if err != nil {
			respondError(c, internalError("Failed to hash password", err))
			return
		}
		// Also bumps the token version, so older sessions stop working
		if err := users.UpdatePassword(ctx, userID, hash, time.Now()); err != nil {
			respondError(c, internalError("Failed to update password", err))
			return
		}
		logrus.WithField("user_id", userID).Info("Password changed")
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// CheckUsernameHandler tells the sign-up form whether a username is taken
func CheckUsernameHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckUsernameRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Username is required", "username"))
			return
		}
		exists, err := users.UsernameExists(c.Request.Context(), strings.TrimSpace(req.Username))
		if err != nil {
			respondError(c, internalError("Failed to check username", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"isExist": exists})
	}
}

// SignOutHandler revokes every token issued to the caller so far
func SignOutHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, unauthorized("Unauthenticated"))
			return
		}
		err := users.BumpTokenVersion(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, notFound("User not found", CodeUserNotFound))
			return
		}
		if err != nil {
			respondError(c, internalError("Failed to sign out", err))
			return
		}
		logrus.WithField("user_id", userID).Info("User signed out")
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}

func tokenError(err error) *HTTPError {
	if errors.Is(err, utils.ErrMissingSecret) {
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Server configuration error",
			Code:    CodeServerConfig,
			Err:     err,
		}
	}
	return internalError("Failed to generate token", err)
}
