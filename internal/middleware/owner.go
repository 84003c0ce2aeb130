package middleware

import (
	"context"  // Context for store lookups
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"creator_support/internal/domain" // Importing domain models
	"creator_support/internal/store"  // Store sentinel errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// CompanyKey is the gin context key holding the company loaded by CompanyOwnerMiddleware
const CompanyKey = "company"

// CompanyLookup loads a company by id
type CompanyLookup interface {
	CompanyByID(ctx context.Context, id uint) (*domain.Company, error)
}

// CompanyOwnerMiddleware checks on each request that the :companyId in the path belongs to the caller
func CompanyOwnerMiddleware(companies CompanyLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c) // Get userID from context
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
			return
		}
		id, err := strconv.ParseUint(c.Param("companyId"), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid company id"})
			return
		}
		company, err := companies.CompanyByID(c.Request.Context(), uint(id))
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Company not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to load company"})
			return
		}
		// Someone else's books look the same as missing ones
		if company.UserID != userID {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Company not found"})
			return
		}
		c.Set(CompanyKey, company)
		c.Next()
	}
}

// Company returns the company stored by CompanyOwnerMiddleware
func Company(c *gin.Context) *domain.Company {
	v, _ := c.Get(CompanyKey)
	company, _ := v.(*domain.Company)
	return company
}
