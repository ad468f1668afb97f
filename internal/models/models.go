package models

import "time"

// Campaign es el rendimiento de un creativo dentro de un anuncio.
// ROAS viene precalculado en los datos y el asistente lo usa tal cual.
type Campaign struct {
	Name          string   `json:"name" yaml:"name"`
	Spend         float64  `json:"spend" yaml:"spend"`
	Impressions   int      `json:"impressions" yaml:"impressions"`
	CTR           float64  `json:"ctr" yaml:"ctr"`
	AgendasQ      int      `json:"agendasQ" yaml:"agendasQ"`
	ShowsQ        int      `json:"showsQ" yaml:"showsQ"`
	Sales         int      `json:"sales" yaml:"sales"`
	Cash          float64  `json:"cash" yaml:"cash"`
	ROAS          float64  `json:"roas" yaml:"roas"`
	Reservas      *int     `json:"reservas,omitempty" yaml:"reservas,omitempty"`
	ValorReservas *float64 `json:"valorReservas,omitempty" yaml:"valorReservas,omitempty"`
}

// Ad agrupa campañas; sus campos top-level son el agregado del anuncio.
type Ad struct {
	AdID        string     `json:"adId" yaml:"adId"`
	AdName      string     `json:"adName" yaml:"adName"`
	Medium      string     `json:"medium" yaml:"medium"`
	Spend       float64    `json:"spend" yaml:"spend"`
	Impressions int        `json:"impressions" yaml:"impressions"`
	CTR         float64    `json:"ctr" yaml:"ctr"`
	Agendas     int        `json:"agendas" yaml:"agendas"`
	AgendasQ    int        `json:"agendasQ" yaml:"agendasQ"`
	ShowsQ      int        `json:"showsQ" yaml:"showsQ"`
	Sales       int        `json:"sales" yaml:"sales"`
	Cash        float64    `json:"cash" yaml:"cash"`
	Campaigns   []Campaign `json:"campaigns" yaml:"campaigns"`
}

// Closer: embudo de un vendedor en la ventana. Se asume
// leads >= agendas >= shows >= sales pero no se fuerza.
type Closer struct {
	Name    string  `json:"closer" yaml:"closer"`
	Leads   int     `json:"leads" yaml:"leads"`
	Agendas int     `json:"agendas" yaml:"agendas"`
	Shows   int     `json:"shows" yaml:"shows"`
	Offers  int     `json:"offers" yaml:"offers"`
	Sales   int     `json:"sales" yaml:"sales"`
	Cash    float64 `json:"cash" yaml:"cash"`
	Notes   string  `json:"notes" yaml:"notes"`
}

type Method struct {
	Name     string  `json:"method" yaml:"method"`
	Spend    float64 `json:"spend" yaml:"spend"`
	Messages int     `json:"messages,omitempty" yaml:"messages,omitempty"`
	Videos   int     `json:"videos,omitempty" yaml:"videos,omitempty"`
	Agendas  int     `json:"agendas" yaml:"agendas"`
	AgendasQ int     `json:"agendasQ" yaml:"agendasQ"`
	ShowsQ   int     `json:"showsQ" yaml:"showsQ"`
	Sales    int     `json:"sales" yaml:"sales"`
	Cash     float64 `json:"cash" yaml:"cash"`
	Billing  float64 `json:"billing" yaml:"billing"`
}

// VSLMetrics: retención del video de ventas, minuto a minuto.
type VSLMetrics struct {
	PlayRatePct          float64   `json:"playRatePct" yaml:"playRatePct"`
	EngagementPct        float64   `json:"engagementPct" yaml:"engagementPct"`
	RetentionByMinutePct []float64 `json:"retentionByMinutePct" yaml:"retentionByMinutePct"`
	MajorDropMinute      int       `json:"majorDropMinute" yaml:"majorDropMinute"`
}

// Dataset se carga una vez al inicio y no se modifica después.
type Dataset struct {
	Ads     []Ad       `json:"ads" yaml:"ads"`
	Closers []Closer   `json:"closers" yaml:"closers"`
	Methods []Method   `json:"methods" yaml:"methods"`
	VSL     VSLMetrics `json:"vsl" yaml:"vsl"`
}

// PrimaryAd es el anuncio que alimenta al asistente (el primero del dataset).
func (d Dataset) PrimaryAd() Ad {
	if len(d.Ads) == 0 {
		return Ad{}
	}
	return d.Ads[0]
}

type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Initials string `json:"initials"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"type"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// Clock es la hora de Timestamp en la zona de visualización (HH:MM).
	Clock string `json:"clock"`
}
