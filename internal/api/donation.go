package api

import (
	"errors"   // Error inspection
	"fmt"      // Cache key formatting
	"net/http" // HTTP status codes
	"time"     // Cache TTL and windows

	"creator_support/internal/domain"  // Importing domain models
	"creator_support/internal/metrics" // Prometheus counters
	"creator_support/internal/store"   // Store error helpers
	"creator_support/internal/utils"   // Cache

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging
)

const donationCacheTTL = 60 * time.Second

func donationCacheKey(recipientID uint) string {
	return fmt.Sprintf("donations:user:%d", recipientID)
}

// CreateDonationRequest is what a supporter submits from a public page
type CreateDonationRequest struct {
	Amount                  decimal.Decimal `json:"amount"`
	SpecialMessage          string          `json:"specialMessage"`
	SocialURLOrBuyMeACoffee string          `json:"socialURLOrBuyMeACoffee"`
	DonorID                 ID              `json:"donorId"`
	RecipientID             ID              `json:"recipientId"`
}

// CreateDonationHandler records a donation. No payment is captured; the row is the whole transaction.
func CreateDonationHandler(donations DonationStore, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateDonationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("Invalid request body", ""))
			return
		}
		// Amount is stored to the cent and must stay positive after rounding
		amount := req.Amount.Round(2)
		if !amount.IsPositive() {
			respondError(c, validationError("Amount must be greater than zero", "amount"))
			return
		}
		if req.RecipientID == 0 {
			respondError(c, validationError("recipientId is required", "recipientId"))
			return
		}
		if req.DonorID == 0 {
			respondError(c, validationError("donorId is required", "donorId"))
			return
		}
		donation := domain.Donation{
			Amount:                  amount,
			SpecialMessage:          req.SpecialMessage,
			SocialURLOrBuyMeACoffee: req.SocialURLOrBuyMeACoffee,
			DonorID:                 uint(req.DonorID),
			RecipientID:             uint(req.RecipientID),
		}
		if err := donations.CreateDonation(c.Request.Context(), &donation); err != nil {
			if store.IsForeignKey(err) {
				// Donor or recipient does not exist
				respondError(c, conflict(http.StatusBadRequest, "Donor or recipient does not exist", CodeForeignKey, foreignKeyField(err), err))
				return
			}
			respondError(c, internalError("Failed to create donation", err))
			return
		}
		dropCache(c, cache, donationCacheKey(donation.RecipientID))
		recorded, _ := donation.Amount.Float64()
		metrics.RecordDonation(recorded)
		logrus.WithFields(logrus.Fields{
			"donation_id":  donation.ID,
			"donor_id":     donation.DonorID,
			"recipient_id": donation.RecipientID,
			"amount":       donation.Amount.String(),
		}).Info("Donation recorded")
		c.JSON(http.StatusOK, gin.H{"message": "Donation created successfully", "Donation": donation})
	}
}

// ListDonationsHandler returns the donations a user received, newest first, with donor profiles
func ListDonationsHandler(donations DonationStore, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			respondError(c, validationError("Invalid user id", "userId"))
			return
		}
		filter, _, herr := donationFilter(c, "all", time.Now())
		if herr != nil {
			respondError(c, herr)
			return
		}
		ctx := c.Request.Context()
		key := donationCacheKey(userID)
		// Only the unfiltered list is cached
		if filter.Empty() {
			var cached []domain.Donation
			if found, err := cache.Get(ctx, key, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"donations": cached})
				return
			}
		}
		list, err := donations.DonationsByRecipient(ctx, userID, filter)
		if err != nil {
			respondError(c, internalError("Failed to fetch donations", err))
			return
		}
		if filter.Empty() {
			if err := cache.Set(ctx, key, list, donationCacheTTL); err != nil {
				logrus.WithField("error", err.Error()).Warn("Failed to cache donations")
			}
		}
		c.JSON(http.StatusOK, gin.H{"donations": list})
	}
}

// EarningsHandler totals what a user received over the last 30 or 90 days, or ever
func EarningsHandler(donations DonationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			respondError(c, validationError("Invalid user id", "userId"))
			return
		}
		filter, days, herr := donationFilter(c, "30", time.Now())
		if herr != nil {
			respondError(c, herr)
			return
		}
		total, count, err := donations.Earnings(c.Request.Context(), userID, filter)
		if err != nil {
			respondError(c, internalError("Failed to compute earnings", err))
			return
		}
		c.JSON(http.StatusOK, domain.Earnings{Total: total, Count: count, Days: days})
	}
}

func foreignKeyField(err error) string {
	var cv *store.ConstraintViolation
	if errors.As(err, &cv) {
		return cv.Field
	}
	return ""
}
