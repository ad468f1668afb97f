package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/admira-dashboard/internal/format"
	"github.com/AngelCh415/admira-dashboard/internal/models"
)

// ErrEmptyQuestion: un texto en blanco no genera mensajes.
var ErrEmptyQuestion = errors.New("empty question")

const DefaultDelay = 1500 * time.Millisecond

// Conversations es donde el Responder guarda los mensajes.
type Conversations interface {
	CreateSession() string
	Append(session string, m models.Message) (bool, error)
	Messages(session string) ([]models.Message, error)
}

// Responder agrega el "pensando..." (una espera fija) antes de responder.
// Cada pregunta se resuelve por separado; dos preguntas seguidas generan
// dos respuestas independientes.
type Responder struct {
	an      *Analyzer
	conv    Conversations
	log     *slog.Logger
	delay   time.Duration
	loc     *time.Location
	now     func() time.Time
	observe func(Category)
}

type Option func(*Responder)

func WithDelay(d time.Duration) Option       { return func(r *Responder) { r.delay = d } }
func WithLocation(loc *time.Location) Option { return func(r *Responder) { r.loc = loc } }
func WithClock(now func() time.Time) Option  { return func(r *Responder) { r.now = now } }
func WithLogger(log *slog.Logger) Option     { return func(r *Responder) { r.log = log } }
func WithObserver(fn func(Category)) Option  { return func(r *Responder) { r.observe = fn } }

func NewResponder(an *Analyzer, conv Conversations, opts ...Option) *Responder {
	r := &Responder{
		an:    an,
		conv:  conv,
		log:   slog.Default(),
		delay: DefaultDelay,
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start abre una conversación con el saludo inicial.
func (r *Responder) Start() (string, error) {
	id := r.conv.CreateSession()
	if _, err := r.conv.Append(id, r.message(models.RoleAssistant, Greeting, "")); err != nil {
		return "", err
	}
	return id, nil
}

// Ask guarda la pregunta, espera el delay y guarda la respuesta.
// Una sesión inexistente falla antes que un texto en blanco.
// Si ctx se cancela durante la espera la pregunta queda sin respuesta.
func (r *Responder) Ask(ctx context.Context, session, text string) (models.Message, error) {
	if _, err := r.conv.Messages(session); err != nil {
		return models.Message{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyQuestion
	}
	if _, err := r.conv.Append(session, r.message(models.RoleUser, text, "")); err != nil {
		return models.Message{}, err
	}
	if err := r.wait(ctx); err != nil {
		return models.Message{}, err
	}
	ans := r.an.Analyze(text)
	if r.observe != nil {
		r.observe(ans.Category)
	}
	msg := r.message(models.RoleAssistant, ans.Text, ans.Category)
	if _, err := r.conv.Append(session, msg); err != nil {
		return models.Message{}, err
	}
	r.log.Debug("chat answered", slog.String("session", session), slog.String("category", string(ans.Category)))
	return msg, nil
}

// History devuelve los mensajes de una conversación en orden.
func (r *Responder) History(session string) ([]models.Message, error) {
	return r.conv.Messages(session)
}

type Result struct {
	Message models.Message
	Err     error
}

// Submit es Ask en segundo plano. El canal recibe exactamente un Result.
func (r *Responder) Submit(ctx context.Context, session, text string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		m, err := r.Ask(ctx, session, text)
		out <- Result{Message: m, Err: err}
	}()
	return out
}

func (r *Responder) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Responder) message(role models.Role, content string, cat Category) models.Message {
	now := r.now()
	return models.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Category:  string(cat),
		Timestamp: now,
		Clock:     format.Clock(now, r.loc),
	}
}
