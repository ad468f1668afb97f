package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dashboard/internal/assistant"
	"github.com/AngelCh415/admira-dashboard/internal/clients"
	"github.com/AngelCh415/admira-dashboard/internal/ingest"
	"github.com/AngelCh415/admira-dashboard/internal/metrics"
	"github.com/AngelCh415/admira-dashboard/internal/store"
	"github.com/AngelCh415/admira-dashboard/internal/telemetry"
)

var fixedNow = time.Date(2025, 8, 15, 18, 5, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ds := ingest.Default()
	an := assistant.NewAnalyzer(ds)
	return NewRouter(Deps{
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:   metrics.NewService(ds),
		Analyzer:  an,
		Responder: assistant.NewResponder(an, store.NewMemoryStore(), assistant.WithDelay(0)),
		Clients: clients.NewGenerator(clients.WithRand(func() float64 {
			return 0.5
		})),
		Telemetry:   telemetry.New(),
		CORSOrigins: []string{"http://panel.test"},
		Now:         func() time.Time { return fixedNow },
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	assert.Equal(t, "ok", do(t, h, http.MethodGet, "/healthz", "").Body.String())
	assert.Equal(t, 200, do(t, h, http.MethodGet, "/readyz", "").Code)
}

func TestDashboardAds(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/api/dashboard/ads?range=7days", "")
	require.Equal(t, 200, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	env := decode[struct {
		UpdatedAt  string `json:"updatedAt"`
		RangeLabel string `json:"rangeLabel"`
		Days       int    `json:"days"`
		Data       []struct {
			AdID      string `json:"adId"`
			Campaigns []struct {
				Name string   `json:"name"`
				CAC  *float64 `json:"cac"`
			} `json:"campaigns"`
			Totals struct {
				Spend float64 `json:"spend"`
				Cash  float64 `json:"cash"`
			} `json:"totals"`
		} `json:"data"`
	}](t, rec)
	assert.Equal(t, "15/08/2025, 18:05", env.UpdatedAt)
	assert.Equal(t, "08/08/2025 - 15/08/2025", env.RangeLabel)
	assert.Equal(t, 8, env.Days)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "FB-01", env.Data[0].AdID)
	assert.Nil(t, env.Data[0].Campaigns[0].CAC, "H1 sin ventas: CAC null")
	assert.Equal(t, 4800.0, env.Data[0].Totals.Spend)
	assert.Equal(t, 89100.0, env.Data[0].Totals.Cash)
}

func TestDashboardBadRange(t *testing.T) {
	h := newTestRouter(t)
	assert.Equal(t, 400, do(t, h, http.MethodGet, "/api/dashboard/closers?range=custom&from=2025-08-10&to=2025-08-01", "").Code)
	assert.Equal(t, 400, do(t, h, http.MethodGet, "/api/dashboard/methods?range=forever", "").Code)
}

func TestDashboardClosersAndMethods(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/api/dashboard/closers?sort=cash", "")
	require.Equal(t, 200, rec.Code)
	closers := decode[struct {
		Data struct {
			Rows []struct {
				Name string `json:"closer"`
			} `json:"rows"`
		} `json:"data"`
	}](t, rec)
	require.Len(t, closers.Data.Rows, 3)
	assert.Equal(t, "Juan Díaz", closers.Data.Rows[0].Name)

	rec = do(t, h, http.MethodGet, "/api/dashboard/methods", "")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"roas": null`)
}

func TestClients(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/api/clients", "")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Digital Marketing Academy")

	rec = do(t, h, http.MethodGet, "/api/clients/cliente1", "")
	require.Equal(t, 200, rec.Code)
	snap := decode[struct {
		Data struct {
			Snapshot struct {
				Investment int64 `json:"investment"`
			} `json:"snapshot"`
			Cards [][]clients.Card `json:"cards"`
		} `json:"data"`
	}](t, rec)
	assert.Equal(t, int64(4800), snap.Data.Snapshot.Investment)
	assert.Equal(t, "19.6x", snap.Data.Cards[3][3].Value)

	assert.Equal(t, 404, do(t, h, http.MethodGet, "/api/clients/cliente99", "").Code)
}

func TestAskStateless(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/api/chat/ask", `{"text":"¿Cuál es mi anuncio ganador?"}`)
	require.Equal(t, 200, rec.Code)
	ans := decode[assistant.Answer](t, rec)
	assert.Equal(t, assistant.CategoryWinningAd, ans.Category)
	assert.Contains(t, ans.Text, "H5")

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/chat/ask", `{"text":"   "}`).Code)
	assert.Equal(t, 400, do(t, h, http.MethodPost, "/api/chat/ask", `{`).Code)
}

func TestChatSessionFlow(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/api/chat/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[struct {
		Session  string `json:"session"`
		Messages []struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		} `json:"messages"`
	}](t, rec)
	require.Len(t, created.Messages, 1)
	assert.Equal(t, assistant.Greeting, created.Messages[0].Content)

	path := "/api/chat/sessions/" + created.Session + "/messages"
	rec = do(t, h, http.MethodPost, path, `{"text":"ayuda"}`)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category": "help"`)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, path, `{"text":""}`).Code)

	rec = do(t, h, http.MethodGet, path, "")
	require.Equal(t, 200, rec.Code)
	msgs := decode[[]struct {
		Type string `json:"type"`
	}](t, rec)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"assistant", "user", "assistant"}, []string{msgs[0].Type, msgs[1].Type, msgs[2].Type})

	assert.Equal(t, 404, do(t, h, http.MethodGet, "/api/chat/sessions/nope/messages", "").Code)
	assert.Equal(t, 404, do(t, h, http.MethodPost, "/api/chat/sessions/nope/messages", `{"text":"roas"}`).Code)
	assert.Equal(t, 404, do(t, h, http.MethodPost, "/api/chat/sessions/nope/messages", `{"text":"  "}`).Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/chat/ask", nil)
	req.Header.Set("Origin", "http://panel.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://panel.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/api/chat/ask", `{"text":"roas"}`)
	do(t, h, http.MethodGet, "/api/clients/cliente2", "")

	body := do(t, h, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `dashboard_chat_questions_total{category="roas"} 1`)
	assert.Contains(t, body, `dashboard_client_snapshots_total{client="cliente2"} 1`)
	assert.Contains(t, body, `route="/api/chat/ask"`)
}
