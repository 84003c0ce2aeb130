package api

import (
	"errors"
	"net/http"

	"creator_support/internal/domain"
	"creator_support/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateBankCardRequest is the onboarding payment form
type CreateBankCardRequest struct {
	Country    string `json:"country"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVC        string `json:"cvc"`
	UserID     ID     `json:"userId" binding:"required"`
}

// CreateBankCardHandler stores a payout card for a user. Users may hold more than one card.
func CreateBankCardHandler(cards BankCardStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBankCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, validationError("userId is required", "userId"))
			return
		}
		card := domain.BankCard{
			Country:    req.Country,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			CardNumber: req.CardNumber,
			ExpiryDate: req.ExpiryDate,
			CVC:        req.CVC,
			UserID:     uint(req.UserID),
		}
		if err := cards.CreateBankCard(c.Request.Context(), &card); err != nil {
			if store.IsForeignKey(err) {
				respondError(c, notFound("User not found", CodeUserNotFound))
				return
			}
			respondError(c, internalError("Failed to create bank card", err))
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":      card.UserID,
			"bank_card_id": card.ID,
		}).Info("Bank card created")
		c.JSON(http.StatusOK, gin.H{"message": "Bank card created successfully", "BankCard": card})
	}
}

// UpdateBankCardHandler changes only the card fields present in the body
func UpdateBankCardHandler(cards BankCardStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			respondError(c, validationError("Invalid bank card id", "id"))
			return
		}
		var upd domain.BankCardUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			respondError(c, validationError("Invalid request body", ""))
			return
		}
		card, err := cards.UpdateBankCard(c.Request.Context(), id, upd)
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, notFound("Bank card not found", CodeNotFound))
			return
		}
		if err != nil {
			respondError(c, internalError("Failed to update bank card", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"bankCard": card})
	}
}
