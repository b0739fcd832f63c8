package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paisawise/pricewatch/models"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(time.Now().Add(-90*time.Second), "1.2.3"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Service != "pricewatch" {
		t.Errorf("service = %q", resp.Service)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("version = %q", resp.Version)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", resp.Timestamp, err)
	}
	if resp.Uptime == "" {
		t.Error("uptime missing")
	}
}
