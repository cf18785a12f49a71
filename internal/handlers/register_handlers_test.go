package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
	"github.com/SscSPs/arap_ledger/internal/handlers"
	"github.com/SscSPs/arap_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{Ledger: new(MockLedgerService)}))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_SwaggerOutsideProduction(t *testing.T) {
	r := newTestEngine(t, &config.Config{})

	w := get(r, "/swagger/doc.json")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/ledger/{kind}/accounts/{accountID}/payments"`)
	assert.Contains(t, w.Body.String(), `"basePath": "/api/v1"`)
}

func TestRegisterRoutes_NoSwaggerInProduction(t *testing.T) {
	r := newTestEngine(t, &config.Config{IsProduction: true})

	assert.Equal(t, http.StatusNotFound, get(r, "/swagger/doc.json").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
}

func TestRegisterRoutes_InvalidRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	err := handlers.RegisterRoutes(gin.New(), &config.Config{RateLimit: "lots"}, &portssvc.ServiceContainer{Ledger: new(MockLedgerService)})
	assert.Error(t, err)
}
