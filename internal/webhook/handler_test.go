package webhook

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/database"
)

type nopSender struct{}

func (nopSender) Send(to, message string) error { return nil }

func setupHandler(t *testing.T, events func(event string, data any)) (*Handler, *campaign.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))

	store := campaign.NewMemoryStore()
	opts := []campaign.Option{}
	if events != nil {
		opts = append(opts, campaign.WithEventFunc(events))
	}
	engine, err := campaign.New(campaign.DefaultCapacityConfig(), nil, campaign.DefaultSequences(),
		store, nopSender{}, opts...)
	require.NoError(t, err)

	return NewHandler(&config.Config{VerifyToken: "secret"}, engine), store
}

func TestVerifyWebhook(t *testing.T) {
	handler, _ := setupHandler(t, nil)
	r := gin.New()
	r.GET("/webhook", handler.VerifyWebhook)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/webhook?verify_token=secret&challenge=12345", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/webhook?verify_token=wrong&challenge=12345", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/webhook", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCallEventEnqueuesOnce(t *testing.T) {
	var mu sync.Mutex
	counts := map[string]int{}
	handler, store := setupHandler(t, func(event string, data any) {
		mu.Lock()
		counts[event]++
		mu.Unlock()
	})

	r := gin.New()
	r.POST("/webhook", handler.HandleCallEvent)

	body := fmt.Sprintf(`{"event":"call.completed","calls":[
		{"call_id":"call-1","contact_id":"c-1","account_name":"Miller Farm","phone":"5551234567","disposition":"no_answer","completed_at":%d}
	]}`, time.Now().UnixMilli())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	steps, err := store.List(campaign.StepFilter{ContactID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, steps, 3)

	// The engine's event callback is the only broadcast path; one enqueue
	// means exactly one sequence_enqueued event.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, counts["sequence_enqueued"])
}

func TestHandleCallEventDropsUnknownDisposition(t *testing.T) {
	handler, store := setupHandler(t, nil)
	r := gin.New()
	r.POST("/webhook", handler.HandleCallEvent)

	body := fmt.Sprintf(`{"event":"call.completed","calls":[
		{"call_id":"call-1","contact_id":"c-1","account_name":"Miller Farm","phone":"5551234567","disposition":"busy","completed_at":%d}
	]}`, time.Now().UnixMilli())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "a bad call is dropped, not a failed request")

	steps, err := store.List(campaign.StepFilter{})
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestHandleCallEventRejectsBadJSON(t *testing.T) {
	handler, _ := setupHandler(t, nil)
	r := gin.New()
	r.POST("/webhook", handler.HandleCallEvent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
