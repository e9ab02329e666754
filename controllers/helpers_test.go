package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/workhub-app/workhub-api/services"
	"github.com/workhub-app/workhub-api/store"
	"github.com/workhub-app/workhub-api/testutil"
	"gorm.io/gorm"
)

// testToday is the booking clock used by controller tests
var testToday = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// setupServices installs every service over a fresh in-memory store
func setupServices(t *testing.T) (*store.GormStore, *services.MockImageService) {
	t.Helper()
	_, st, images := setupServicesDB(t)
	return st, images
}

// setupServicesDB is setupServices that also returns the database, for
// seeding rows no endpoint writes
func setupServicesDB(t *testing.T) (*gorm.DB, *store.GormStore, *services.MockImageService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	st := store.NewGormStore(db)
	images := services.NewMockImageService()
	events := services.NoopPublisher{}

	services.SetBookingService(services.NewBookingService(st, st, events).WithClock(func() time.Time { return testToday }))
	services.SetWorkerOrderService(services.NewWorkerOrderService(st, st, events))
	services.SetUserOrderService(services.NewUserOrderService(st, events, false))
	services.SetAccountService(services.NewAccountService(st, images, nil))
	services.SetWorkerDirectoryService(services.NewWorkerDirectoryService(st, st, images, nil))
	services.SetPostService(services.NewPostService(st, st, images))
	return db, st, images
}

// setupTestRouter serves every route as userID
func setupTestRouter(userID string, scopes ...string) *gin.Engine {
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1", testutil.MockAuthMiddleware(userID, scopes...)))
	return router
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(t, router, req)
}

func serve(t *testing.T, router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response body: %s", w.Body.String())
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errData, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errData["code"].(string)
	return code
}

func errorMessage(response map[string]interface{}) string {
	errData, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	msg, _ := errData["message"].(string)
	return msg
}
