package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsWithScope(scope string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: "auth0|123456",
		},
		CustomClaims: &CustomClaims{Scope: scope},
	}
}

func TestCustomClaims_HasScope(t *testing.T) {
	tests := []struct {
		name          string
		scope         string
		expectedScope string
		want          bool
	}{
		{
			name:          "has exact scope",
			scope:         ScopeCompleteOrders,
			expectedScope: ScopeCompleteOrders,
			want:          true,
		},
		{
			name:          "has scope in multiple scopes",
			scope:         "read:orders write:order-completion openid",
			expectedScope: ScopeCompleteOrders,
			want:          true,
		},
		{
			name:          "tolerates repeated whitespace",
			scope:         "  read:orders   write:order-completion ",
			expectedScope: ScopeCompleteOrders,
			want:          true,
		},
		{
			name:          "does not have scope",
			scope:         "read:orders",
			expectedScope: ScopeCompleteOrders,
			want:          false,
		},
		{
			name:          "empty scope",
			scope:         "",
			expectedScope: ScopeCompleteOrders,
			want:          false,
		},
		{
			name:          "partial match should not work",
			scope:         ScopeCompleteOrders,
			expectedScope: "write:order",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := CustomClaims{Scope: tt.scope}
			assert.Equal(t, tt.want, claims.HasScope(tt.expectedScope))
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set(UserIDKey, "auth0|123456")
			},
			wantID: "auth0|123456",
		},
		{
			name:      "user ID not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set(UserIDKey, 12345)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("trims the subject", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserIDKey, "  auth0|123456 ")

		sess, err := GetSession(c)
		require.NoError(t, err)
		assert.Equal(t, "auth0|123456", sess.UID)
	})

	t.Run("blank subject", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserIDKey, "   ")

		_, err := GetSession(c)
		require.Error(t, err)
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "MISSING_USER_ID", authErr.Code)
	})

	t.Run("no subject", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, err := GetSession(c)
		assert.Error(t, err)
	})
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetAccessToken(c)
	assert.Error(t, err)

	c.Set(AccessTokenKey, "")
	_, err = GetAccessToken(c)
	assert.Error(t, err)

	c.Set(AccessTokenKey, "token-abc")
	token, err := GetAccessToken(c)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				c.Set(ValidatedClaimsKey, claimsWithScope("read:orders"))
			},
		},
		{
			name:      "claims not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "claims are not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set(ValidatedClaimsKey, "invalid")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupFunc(c)

			claims, err := GetClaims(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupFunc      func(*gin.Context)
		wantStatusCode int
		wantAborted    bool
	}{
		{
			name: "has required scope",
			setupFunc: func(c *gin.Context) {
				c.Set(ValidatedClaimsKey, claimsWithScope("read:orders "+ScopeCompleteOrders))
			},
		},
		{
			name: "missing required scope",
			setupFunc: func(c *gin.Context) {
				c.Set(ValidatedClaimsKey, claimsWithScope("read:orders"))
			},
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
		},
		{
			name: "claims without custom claims",
			setupFunc: func(c *gin.Context) {
				c.Set(ValidatedClaimsKey, &validator.ValidatedClaims{})
			},
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
		},
		{
			name:           "claims not in context",
			setupFunc:      func(c *gin.Context) {},
			wantStatusCode: http.StatusUnauthorized,
			wantAborted:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/orders/abc/complete", nil)

			tt.setupFunc(c)
			RequireScope(ScopeCompleteOrders)(c)

			if tt.wantAborted {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tt.wantStatusCode, w.Code)
			} else {
				assert.False(t, c.IsAborted())
			}
		})
	}
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    "TEST_ERROR",
		Message: "This is a test error",
	}

	assert.Equal(t, "This is a test error", err.Error())
}
