package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

// helper: hace la petición y devuelve código HTTP + error de red (si hubo)
func fetchURL(c HTTPClient, url string) (int, error) {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func TestHTTPClientHandles500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	code, err := fetchURL(NewHTTPClient(2*time.Second), srv.URL)
	if err != nil {
		t.Fatalf("unexpected network error: %v", err)
	}
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}

func TestHTTPClientHandlesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := fetchURL(NewHTTPClient(100*time.Millisecond), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestDefaultDataset(t *testing.T) {
	ds := Default()
	require.Len(t, ds.Ads, 1)
	ad := ds.PrimaryAd()
	assert.Equal(t, "FB-01", ad.AdID)
	assert.Equal(t, 4800.0, ad.Spend)
	assert.Equal(t, 89100.0, ad.Cash)
	require.Len(t, ad.Campaigns, 8)
	assert.Equal(t, "H5", ad.Campaigns[4].Name)
	require.Len(t, ds.Closers, 3)
	assert.Equal(t, "Juan Díaz", ds.Closers[0].Name)
	require.Len(t, ds.Methods, 3)
	assert.Equal(t, 320, ds.Methods[1].Messages)
	assert.Equal(t, 3, ds.VSL.MajorDropMinute)
	assert.NoError(t, Validate(ds))
	assert.Empty(t, FunnelWarnings(ds))
}

func TestLoadEmbedded(t *testing.T) {
	ds, err := NewLoader(nil, nil).Load(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, Default(), ds)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "data.yml")
	require.NoError(t, os.WriteFile(yml, []byte(`
ads:
  - adId: " X-1 "
    medium: ""
    campaigns:
      - {name: " C1 ", spend: 10, agendasQ: 2, showsQ: 1, sales: 1, cash: 30, roas: 3}
closers:
  - {closer: Eva, leads: 5, agendas: 4, shows: 3, sales: 1, cash: 100}
`), 0o644))
	ds, err := NewLoader(nil, nil).Load(context.Background(), yml)
	require.NoError(t, err)
	assert.Equal(t, "X-1", ds.Ads[0].AdID)
	assert.Equal(t, "X-1", ds.Ads[0].AdName)
	assert.Equal(t, "unknown", ds.Ads[0].Medium)
	assert.Equal(t, "C1", ds.Ads[0].Campaigns[0].Name)
	assert.NotNil(t, ds.Methods)

	js := filepath.Join(dir, "data.json")
	b, _ := json.Marshal(Default())
	require.NoError(t, os.WriteFile(js, b, 0o644))
	ds, err = NewLoader(nil, nil).Load(context.Background(), js)
	require.NoError(t, err)
	assert.Equal(t, Default(), ds)

	bad := filepath.Join(dir, "typo.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"addz": []}`), 0o644))
	_, err = NewLoader(nil, nil).Load(context.Background(), bad)
	assert.Error(t, err)

	_, err = NewLoader(nil, nil).Load(context.Background(), filepath.Join(dir, "data.csv"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
closers:
  - {closer: Eva, sales: -1}
  - {closer: Eva}
methods:
  - {method: "", spend: 1}
`), 0o644))
	_, err := NewLoader(nil, nil).Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
	assert.Contains(t, err.Error(), "duplicate closer Eva")
	assert.Contains(t, err.Error(), "method without name")
}

func TestLoadRejectsNonFinite(t *testing.T) {
	cases := map[string]string{
		"inf roas":      "ads:\n  - adId: A\n    campaigns: [{name: X, spend: 10, roas: .inf}]\n",
		"nan ctr":       "ads:\n  - adId: A\n    campaigns: [{name: X, spend: 10, ctr: .nan}]\n",
		"inf cash":      "closers:\n  - {closer: Eva, cash: .inf}\n",
		"nan billing":   "methods:\n  - {method: M, billing: .nan}\n",
		"inf retention": "vsl:\n  retentionByMinutePct: [100, .inf]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := NewLoader(nil, nil).Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "non-finite")
		})
	}
}

func TestFunnelWarnings(t *testing.T) {
	ds := models.Dataset{Closers: []models.Closer{
		{Name: "ok", Leads: 4, Agendas: 3, Shows: 2, Sales: 1},
		{Name: "raro", Leads: 1, Agendas: 3, Shows: 2, Sales: 1},
	}}
	w := FunnelWarnings(ds)
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "raro")
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(Default())
	}))
	defer srv.Close()

	ds, err := NewLoader(NewHTTPClient(2*time.Second), nil).Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, Default(), ds)

	_, err = NewLoader(nil, nil).Load(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestGetJSONWithRetryRetries5xx(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct{ OK bool }
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), srv.URL, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestGetJSONWithRetryDoesNotRetry404(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var out map[string]any
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), srv.URL, &out)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.False(t, se.Retryable())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLoadFromURLRejectsUnknownFields(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"addz": []}`))
	}))
	defer srv.Close()

	_, err := NewLoader(NewHTTPClient(time.Second), nil).Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "un cuerpo inválido no se reintenta")
}

func TestGetJSONWithRetryGivesUp(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), srv.URL, &struct{}{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.Retryable())
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}
