package whatsapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/switchproai-eng/WhatsApp-Automation-sub000/internal/config"
)

func newTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	service := NewService(nil, nil, cfg, nil)
	ctrl := NewController(cfg, service)
	router.GET("/api/webhooks/whatsapp", ctrl.VerifyWebhook)
	router.POST("/api/webhooks/whatsapp", ctrl.Webhook)
	return router
}

func TestVerifyWebhook(t *testing.T) {
	router := newTestRouter(&config.Config{VerifyToken: "expected-token"})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "successful handshake echoes challenge",
			query:      "hub.mode=subscribe&hub.verify_token=expected-token&hub.challenge=challenge-123",
			wantStatus: http.StatusOK,
			wantBody:   "challenge-123",
		},
		{
			name:       "wrong token",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=c",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode",
			query:      "hub.mode=unsubscribe&hub.verify_token=expected-token&hub.challenge=c",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing parameters",
			query:      "",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/webhooks/whatsapp?"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func postWebhook(router *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/whatsapp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsUnknownObject(t *testing.T) {
	router := newTestRouter(&config.Config{VerifyToken: "t"})

	w := postWebhook(router, `{"object":"instagram","entry":[]}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(&config.Config{VerifyToken: "t"})

	w := postWebhook(router, `{"object":`, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookAcknowledgesEmptyDelivery(t *testing.T) {
	router := newTestRouter(&config.Config{VerifyToken: "t"})

	w := postWebhook(router, `{"object":"whatsapp_business_account","entry":[]}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestWebhookSignatureEnforcement(t *testing.T) {
	router := newTestRouter(&config.Config{VerifyToken: "t", AppSecret: "app-secret"})
	body := `{"object":"whatsapp_business_account","entry":[]}`

	t.Run("missing signature", func(t *testing.T) {
		w := postWebhook(router, body, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		w := postWebhook(router, body, "sha256=0000")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("valid signature", func(t *testing.T) {
		w := postWebhook(router, body, signPayload([]byte(body), "app-secret"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
