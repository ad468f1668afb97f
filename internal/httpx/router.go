package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/AngelCh415/admira-dashboard/internal/assistant"
	"github.com/AngelCh415/admira-dashboard/internal/clients"
	"github.com/AngelCh415/admira-dashboard/internal/daterange"
	"github.com/AngelCh415/admira-dashboard/internal/format"
	"github.com/AngelCh415/admira-dashboard/internal/metrics"
	"github.com/AngelCh415/admira-dashboard/internal/store"
	"github.com/AngelCh415/admira-dashboard/internal/telemetry"
	"github.com/AngelCh415/admira-dashboard/internal/utils"
)

type Deps struct {
	Log         *slog.Logger
	Metrics     *metrics.Service
	Analyzer    *assistant.Analyzer
	Responder   *assistant.Responder
	Clients     *clients.Generator
	Telemetry   *telemetry.Metrics
	CORSOrigins []string
	Location    *time.Location
	Now         func() time.Time
}

type api struct{ Deps }

func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	a := &api{d}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	if d.Telemetry != nil {
		mux.Use(d.Telemetry.Middleware)
	}
	mux.Use(cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	if d.Telemetry != nil {
		mux.Method(http.MethodGet, "/metrics", d.Telemetry.Handler())
	}

	mux.Route("/api", func(r chi.Router) {
		r.Get("/dashboard/ads", a.ads)
		r.Get("/dashboard/methods", a.methods)
		r.Get("/dashboard/closers", a.closers)

		r.Get("/clients", a.listClients)
		r.Get("/clients/{id}", a.clientSnapshot)

		r.Post("/chat/ask", a.ask)
		r.Post("/chat/sessions", a.newSession)
		r.Get("/chat/sessions/{id}/messages", a.history)
		r.Post("/chat/sessions/{id}/messages", a.send)
	})

	return mux
}

// envelope es la cabecera común de las vistas del dashboard.
type envelope struct {
	UpdatedAt string          `json:"updatedAt"`
	Range     daterange.Range `json:"range"`
	RangeText string          `json:"rangeLabel"`
	Days      int             `json:"days"`
	Data      any             `json:"data"`
}

func (a *api) wrap(r *http.Request, data any) (envelope, error) {
	now := a.Now().In(a.Location)
	q := r.URL.Query()
	rg, err := daterange.Resolve(q.Get("range"), q.Get("from"), q.Get("to"), now)
	if err != nil {
		return envelope{}, err
	}
	return envelope{UpdatedAt: format.Stamp(now, a.Location), Range: rg, RangeText: rg.Label(), Days: rg.Days(), Data: data}, nil
}

func (a *api) ads(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Metrics.QueryAds(r.URL.Query())
	a.respond(w, r, rows, err)
}

func (a *api) methods(w http.ResponseWriter, r *http.Request) {
	t, err := a.Metrics.QueryMethods(r.URL.Query())
	a.respond(w, r, t, err)
}

func (a *api) closers(w http.ResponseWriter, r *http.Request) {
	t, err := a.Metrics.QueryClosers(r.URL.Query())
	a.respond(w, r, t, err)
}

func (a *api) respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	env, err := a.wrap(r, data)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	writeJSON(w, 200, env)
}

func (a *api) listClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{
		"updatedAt": format.Stamp(a.Now(), a.Location),
		"clients":   clients.Catalog(),
	})
}

func (a *api) clientSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := a.Clients.Snapshot(id)
	if errors.Is(err, clients.ErrClientNotFound) {
		http.Error(w, err.Error(), 404)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if a.Telemetry != nil {
		a.Telemetry.SnapshotServed(id)
	}
	a.respond(w, r, map[string]any{"snapshot": s, "cards": clients.Cards(s)}, nil)
}

type askReq struct {
	Text string `json:"text"`
}

func decodeAsk(r *http.Request) (askReq, error) {
	var req askReq
	err := json.NewDecoder(io.LimitReader(r.Body, 8<<10)).Decode(&req)
	return req, err
}

// ask responde sin sesión ni espera.
func (a *api) ask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAsk(r)
	if err != nil {
		http.Error(w, "bad json", 400)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ans := a.Analyzer.Analyze(req.Text)
	if a.Telemetry != nil {
		a.Telemetry.QuestionAnswered(string(ans.Category))
	}
	writeJSON(w, 200, ans)
}

func (a *api) newSession(w http.ResponseWriter, r *http.Request) {
	id, err := a.Responder.Start()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	msgs, err := a.Responder.History(id)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session": id, "messages": msgs})
}

func (a *api) history(w http.ResponseWriter, r *http.Request) {
	msgs, err := a.Responder.History(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrSessionNotFound) {
		http.Error(w, err.Error(), 404)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, 200, msgs)
}

// send bloquea durante el "pensando..." del asistente.
func (a *api) send(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAsk(r)
	if err != nil {
		http.Error(w, "bad json", 400)
		return
	}
	msg, err := a.Responder.Ask(r.Context(), chi.URLParam(r, "id"), req.Text)
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrSessionNotFound):
		http.Error(w, err.Error(), 404)
	case err != nil:
		a.Log.Warn("chat ask aborted", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		writeJSON(w, 200, msg)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
