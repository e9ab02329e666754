package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workhub-app/workhub-api/config"
	"github.com/workhub-app/workhub-api/services"
	"github.com/workhub-app/workhub-api/testutil"
)

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		userInfo, exists := userInfoMap[authHeader[7:]]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	}))
}

func useMockAuth0(t *testing.T, userInfoMap map[string]*services.Auth0UserInfo) {
	t.Helper()
	server := setupMockAuth0Server(userInfoMap)
	original := services.GetUserInfoProvider()
	services.SetUserInfoProvider(services.NewAuth0Service(&config.Config{Auth0Domain: server.URL}))
	t.Cleanup(func() {
		services.SetUserInfoProvider(original)
		server.Close()
	})
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           map[string]interface{}
		userInfo       *services.Auth0UserInfo
		expectedStatus int
		expectedCode   string
		expectedEmail  string
	}{
		{
			name:           "Create user from request body",
			userID:         "auth0|123456",
			body:           map[string]interface{}{"name": "John Doe", "email": "john@example.com", "mobile_no": "555"},
			expectedStatus: http.StatusCreated,
			expectedEmail:  "john@example.com",
		},
		{
			name:           "Email and name taken from Auth0 userinfo",
			userID:         "auth0|fromauth0",
			body:           map[string]interface{}{"mobile_no": "555"},
			userInfo:       &services.Auth0UserInfo{Sub: "auth0|fromauth0", Email: "auth0@example.com", Name: "Auth Zero"},
			expectedStatus: http.StatusCreated,
			expectedEmail:  "auth0@example.com",
		},
		{
			name:           "Fail when userinfo cannot be fetched",
			userID:         "auth0|unknown",
			body:           map[string]interface{}{"mobile_no": "555"},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "USER_INFO_UNAVAILABLE",
		},
		{
			name:           "Fail with missing mobile number",
			userID:         "auth0|nomobile",
			body:           map[string]interface{}{"name": "No Mobile", "email": "nomobile@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail with invalid email",
			userID:         "auth0|bademail",
			body:           map[string]interface{}{"name": "Bad Email", "email": "bad", "mobile_no": "555"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupServices(t)
			userInfoMap := map[string]*services.Auth0UserInfo{}
			if tt.userInfo != nil {
				userInfoMap["token-"+tt.userID] = tt.userInfo
			}
			useMockAuth0(t, userInfoMap)

			w, response := performRequest(t, setupTestRouter(tt.userID), http.MethodPost, "/api/v1/users", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedCode, errorCode(response))
				return
			}
			data := response["data"].(map[string]interface{})
			assert.Equal(t, tt.userID, data["id"])
			assert.Equal(t, tt.expectedEmail, data["email"])
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	setupServices(t)
	router := setupTestRouter("auth0|123456")
	body := map[string]interface{}{"name": "John Doe", "email": "john@example.com", "mobile_no": "555"}

	w, _ := performRequest(t, router, http.MethodPost, "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, response := performRequest(t, router, http.MethodPost, "/api/v1/users", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_EXISTS", errorCode(response))
}

func TestCreateUser_EmailInUse(t *testing.T) {
	setupServices(t)
	body := map[string]interface{}{"name": "John Doe", "email": "john@example.com", "mobile_no": "555"}

	w, _ := performRequest(t, setupTestRouter("auth0|123456"), http.MethodPost, "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, response := performRequest(t, setupTestRouter("auth0|654321"), http.MethodPost, "/api/v1/users", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_IN_USE", errorCode(response))
	assert.Equal(t, "This email address is already used by another account", errorMessage(response))
}

func TestGetAndUpdateMyProfile(t *testing.T) {
	setupServices(t)
	router := setupTestRouter("auth0|123456")

	w, response := performRequest(t, router, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(response))
	assert.Equal(t, "User data not found. Please create an account.", errorMessage(response))

	w, _ = performRequest(t, router, http.MethodPost, "/api/v1/users", map[string]interface{}{"name": "John", "email": "john@example.com", "mobile_no": "555"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, response = performRequest(t, router, http.MethodPut, "/api/v1/users/me", map[string]interface{}{"address": "4 Lake View"})
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "John", data["name"])
	assert.Equal(t, "4 Lake View", data["address"])

	w, response = performRequest(t, router, http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4 Lake View", response["data"].(map[string]interface{})["address"])
}

func TestUploadMyProfileImage(t *testing.T) {
	_, images := setupServices(t)
	router := setupTestRouter("auth0|123456")
	w, _ := performRequest(t, router, http.MethodPost, "/api/v1/users", map[string]interface{}{"name": "John", "email": "john@example.com", "mobile_no": "555"})
	require.Equal(t, http.StatusCreated, w.Code)

	req := testutil.NewMultipartRequest(t, http.MethodPut, "/api/v1/users/me/image", nil,
		testutil.MultipartFile{Field: "image", Filename: "me.png", Content: testutil.PNGHeader})
	w, response := serve(t, router, req)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "profile_images/mock_me.png", data["profile_image_key"])
	assert.NotEmpty(t, data["profile_image_url"])
	assert.True(t, images.ImageExists("profile_images/mock_me.png"))

	req = testutil.NewMultipartRequest(t, http.MethodPut, "/api/v1/users/me/image", map[string]string{"caption": "no file"})
	w, response = serve(t, router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE", errorCode(response))

	req = testutil.NewMultipartRequest(t, http.MethodPut, "/api/v1/users/me/image", nil,
		testutil.MultipartFile{Field: "image", Filename: "me.gif", Content: []byte("GIF89a")})
	w, response = serve(t, router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only PNG and JPEG files are allowed", errorMessage(response))
}
