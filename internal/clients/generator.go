// Package clients genera los números de demo de cada cliente.
//
// Cada Snapshot sortea un multiplicador nuevo en [0.75, 1.25] y lo aplica a
// todas las cifras base, de modo que los cocientes (CAC, ROAS) se mantienen.
// El ticket promedio se calcula sobre cash y ventas ya escaladas.
// Los valores cambian en cada consulta; no se cachean.
package clients

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/AngelCh415/admira-dashboard/internal/metrics"
	"github.com/AngelCh415/admira-dashboard/internal/models"
)

var ErrClientNotFound = errors.New("client not found")

const (
	minMultiplier = 0.75
	maxMultiplier = 1.25
)

var catalog = []models.Client{
	{ID: "cliente1", Name: "Digital Marketing Academy", Industry: "Cursos Online"},
	{ID: "cliente2", Name: "Business Coaching Pro", Industry: "Coaching Ejecutivo"},
	{ID: "cliente3", Name: "Leadership Consultancy", Industry: "Consultoría"},
	{ID: "cliente4", Name: "Sales Mastery Course", Industry: "Cursos de Ventas"},
	{ID: "cliente5", Name: "Entrepreneur Institute", Industry: "Coaching Empresarial"},
	{ID: "cliente6", Name: "Financial Advisory Pro", Industry: "Consultoría Financiera"},
	{ID: "cliente7", Name: "Personal Development Hub", Industry: "Coaching Personal"},
	{ID: "cliente8", Name: "Marketing Strategy Lab", Industry: "Consultoría Marketing"},
	{ID: "cliente9", Name: "Success Mindset Academy", Industry: "Cursos de Desarrollo"},
	{ID: "cliente10", Name: "Business Growth Coach", Industry: "Coaching de Negocios"},
}

// Catalog devuelve los clientes con sus iniciales calculadas.
func Catalog() []models.Client {
	out := make([]models.Client, len(catalog))
	for i, c := range catalog {
		c.Initials = initials(c.Name)
		out[i] = c
	}
	return out
}

func Lookup(id string) (models.Client, bool) {
	for _, c := range Catalog() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Client{}, false
}

func initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		for _, r := range w {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

// Base son las cifras reales del anuncio de testing antes de escalar.
type Base struct {
	Investment        float64
	Impressions       float64
	CTR               float64
	VSLPlayRate       float64
	VSLEngagement     float64
	MeetingsScheduled float64
	MeetingsQualified float64
	MeetingsAttended  float64
	CallsClosed       float64
	Revenue           float64
	Cash              float64
}

var DefaultBase = Base{
	Investment:        4800,
	Impressions:       45000,
	CTR:               2.8,
	VSLPlayRate:       65.2,
	VSLEngagement:     35.2,
	MeetingsScheduled: 156,
	MeetingsQualified: 129,
	MeetingsAttended:  129,
	CallsClosed:       46,
	Revenue:           94000,
	Cash:              94000,
}

type Snapshot struct {
	Client            models.Client `json:"client"`
	Multiplier        float64       `json:"multiplier"`
	Investment        int64         `json:"investment"`
	Impressions       int64         `json:"impressions"`
	CTR               float64       `json:"ctr"`
	VSLPlayRate       float64       `json:"vslPlayRate"`
	VSLEngagement     float64       `json:"vslEngagement"`
	MeetingsScheduled int64         `json:"meetingsScheduled"`
	MeetingsQualified int64         `json:"meetingsQualified"`
	MeetingsAttended  int64         `json:"meetingsAttended"`
	CallsClosed       int64         `json:"callsClosed"`
	Revenue           int64         `json:"revenue"`
	Cash              int64         `json:"cash"`
	AvgTicket         int64         `json:"avgTicket"`

	ShowRate         metrics.Ratio `json:"showRate"`
	CloseRate        metrics.Ratio `json:"closeRate"`
	CostPerQualified metrics.Ratio `json:"costPerQualified"`
	CostPerShow      metrics.Ratio `json:"costPerShow"`
	CAC              metrics.Ratio `json:"cac"`
	ROAS             metrics.Ratio `json:"roas"`
}

type Generator struct {
	base Base
	rnd  func() float64
}

type Option func(*Generator)

// WithRand fija la fuente aleatoria; debe devolver valores en [0, 1).
func WithRand(fn func() float64) Option { return func(g *Generator) { g.rnd = fn } }

func WithBase(b Base) Option { return func(g *Generator) { g.base = b } }

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{base: DefaultBase, rnd: rand.Float64}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Snapshot arma los KPIs de un cliente con un multiplicador recién sorteado.
func (g *Generator) Snapshot(id string) (Snapshot, error) {
	c, ok := Lookup(id)
	if !ok {
		return Snapshot{}, ErrClientNotFound
	}
	m := minMultiplier + g.rnd()*(maxMultiplier-minMultiplier)
	return g.scale(c, m), nil
}

func (g *Generator) scale(c models.Client, m float64) Snapshot {
	b := g.base
	s := Snapshot{
		Client:            c,
		Multiplier:        m,
		Investment:        roundI(b.Investment * m),
		Impressions:       roundI(b.Impressions * m),
		CTR:               round1(b.CTR * m),
		VSLPlayRate:       round1(b.VSLPlayRate * m),
		VSLEngagement:     round1(b.VSLEngagement * m),
		MeetingsScheduled: roundI(b.MeetingsScheduled * m),
		MeetingsQualified: roundI(b.MeetingsQualified * m),
		MeetingsAttended:  roundI(b.MeetingsAttended * m),
		CallsClosed:       roundI(b.CallsClosed * m),
		Revenue:           roundI(b.Revenue * m),
		Cash:              roundI(b.Cash * m),
	}
	if s.CallsClosed > 0 {
		s.AvgTicket = roundI(float64(s.Cash) / float64(s.CallsClosed))
	}
	s.ShowRate = metrics.Percent(float64(s.MeetingsAttended), float64(s.MeetingsQualified))
	s.CloseRate = metrics.Percent(float64(s.CallsClosed), float64(s.MeetingsAttended))
	s.CostPerQualified = metrics.Div(float64(s.Investment), float64(s.MeetingsQualified))
	s.CostPerShow = metrics.Div(float64(s.Investment), float64(s.MeetingsAttended))
	s.CAC = metrics.Div(float64(s.Investment), float64(s.CallsClosed))
	s.ROAS = metrics.Div(float64(s.Revenue), float64(s.Investment))
	return s
}

func roundI(f float64) int64   { return int64(math.Round(f)) }
func round1(f float64) float64 { return math.Round(f*10) / 10 }
