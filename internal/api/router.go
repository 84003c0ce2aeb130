package api

import (
	"net/http" // HTTP status codes

	"creator_support/internal/metrics"    // Prometheus exposition
	"creator_support/internal/middleware" // Custom package for middleware
	"creator_support/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Deps are the collaborators the router wires into its handlers
type Deps struct {
	Store          Store                   // Data access layer
	Cache          utils.Cache             // Response cache, NopCache when Redis is off
	Auth           AuthConfig              // Token and hashing settings
	AllowedOrigins []string                // CORS allowlist
	AuthLimiter    *middleware.RateLimiter // Applied to sign-in and sign-up, nil disables
	TrustedProxies []string                // Proxies allowed to set X-Forwarded-For
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(d Deps) *gin.Engine {
	if d.Cache == nil {
		d.Cache = utils.NopCache{}
	}
	r := gin.New() // Gin router instance
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORSMiddleware(d.AllowedOrigins),
	)
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	requireAuth := middleware.JWTAuthMiddleware(d.Auth.Secret, d.Store)
	limited := func(c *gin.Context) { c.Next() }
	if d.AuthLimiter != nil {
		limited = d.AuthLimiter.Handler()
	}

	r.GET("/api", HealthHandler())                  // Health check
	r.GET("/metrics", gin.WrapH(metrics.Handler())) // Prometheus scrape endpoint

	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/signup", limited, SignUpHandler(d.Store, d.Auth))
	auth.POST("/signin", limited, SignInHandler(d.Store, d.Auth))
	auth.GET("/getMe", requireAuth, GetMeHandler(d.Store))
	auth.POST("/change-password/:userId", limited, ChangePasswordHandler(d.Store, d.Auth))
	auth.POST("/check-username", CheckUsernameHandler(d.Store))
	auth.POST("/signout", requireAuth, SignOutHandler(d.Store))

	// Profile routes, public because they back the supporter page
	profile := r.Group("/profile")
	profile.POST("", CreateProfileHandler(d.Store, d.Store, d.Cache))
	profile.GET("/:userId", GetProfileHandler(d.Store, d.Cache))
	profile.PUT("/:userId", UpdateProfileHandler(d.Store, d.Cache))

	// Bank card routes
	bankCard := r.Group("/bankCard")
	bankCard.POST("", CreateBankCardHandler(d.Store))
	bankCard.PUT("/:id", UpdateBankCardHandler(d.Store))

	// Donation routes
	donation := r.Group("/donation")
	donation.POST("", CreateDonationHandler(d.Store, d.Cache))
	donation.GET("/:userId", ListDonationsHandler(d.Store, d.Cache))
	donation.GET("/:userId/earnings", EarningsHandler(d.Store))

	// Ledger routes (protected by JWT, company routes owner only)
	ledger := r.Group("/ledger", requireAuth)
	ledger.POST("/companies", CreateCompanyHandler(d.Store))
	ledger.GET("/companies", ListCompaniesHandler(d.Store))
	company := ledger.Group("/companies/:companyId", middleware.CompanyOwnerMiddleware(d.Store))
	company.POST("/accounts", CreateAccountHandler(d.Store))
	company.GET("/accounts", ListAccountsHandler(d.Store))
	company.POST("/journal-entries", CreateJournalEntryHandler(d.Store))
	company.GET("/journal-entries", ListJournalEntriesHandler(d.Store))
	company.GET("/trial-balance", TrialBalanceHandler(d.Store))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	return r
}
