package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/workhub-app/workhub-api/middleware"
)

// TestIssuer is the issuer put on mock claims
const TestIssuer = "https://test.auth0.com/"

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// SetMockAuthContext sets up the context exactly as EnsureValidToken does
func SetMockAuthContext(c *gin.Context, userID, accessToken string, scopes []string) {
	c.Set(middleware.UserIDKey, userID)
	c.Set(middleware.AccessTokenKey, accessToken)
	c.Set(middleware.ValidatedClaimsKey, MockValidatedClaims(userID, TestIssuer, scopes))
}

// MockAuthMiddleware stands in for EnsureValidToken. The access token is
// "token-" followed by userID.
func MockAuthMiddleware(userID string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, "token-"+userID, scopes)
		c.Next()
	}
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
