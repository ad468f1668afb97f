package metrics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

type CampaignStats struct {
	models.Campaign
	CAC         Ratio `json:"cac"`
	CPAQ        Ratio `json:"cpaq"`
	CPSQ        Ratio `json:"cpsq"`
	ShowRate    Ratio `json:"showRate"`
	NoShowRate  Ratio `json:"noShowRate"`
	CloseRate   Ratio `json:"closeRate"`
	LeadQuality Ratio `json:"leadQuality"`
	// CashROAS se recalcula como cash/spend; ROAS (embebido) es el del dato.
	CashROAS Ratio `json:"cashRoas"`
}

func ForCampaign(c models.Campaign) CampaignStats {
	return CampaignStats{
		Campaign:    c,
		CAC:         Div(c.Spend, float64(c.Sales)),
		CPAQ:        Div(c.Spend, float64(c.AgendasQ)),
		CPSQ:        Div(c.Spend, float64(c.ShowsQ)),
		ShowRate:    Percent(float64(c.ShowsQ), float64(c.AgendasQ)),
		NoShowRate:  Percent(float64(c.AgendasQ-c.ShowsQ), float64(c.AgendasQ)),
		CloseRate:   Percent(float64(c.Sales), float64(c.ShowsQ)),
		LeadQuality: Percent(float64(c.Sales), float64(c.AgendasQ)),
		CashROAS:    Div(c.Cash, c.Spend),
	}
}

func ForCampaigns(cs []models.Campaign) []CampaignStats {
	out := make([]CampaignStats, 0, len(cs))
	for _, c := range cs {
		out = append(out, ForCampaign(c))
	}
	return out
}

type CloserStats struct {
	models.Closer
	CloseRate  Ratio `json:"closeRate"`
	ShowRate   Ratio `json:"showRate"`
	NoShowRate Ratio `json:"noShowRate"`
	OfferRate  Ratio `json:"offerRate"`
	// WastedAgendas: agendas que no terminaron en venta.
	WastedAgendas int `json:"wastedAgendas"`
}

func ForCloser(c models.Closer) CloserStats {
	return CloserStats{
		Closer:        c,
		CloseRate:     Percent(float64(c.Sales), float64(c.Shows)),
		ShowRate:      Percent(float64(c.Shows), float64(c.Agendas)),
		NoShowRate:    Percent(float64(c.Agendas-c.Shows), float64(c.Agendas)),
		OfferRate:     Percent(float64(c.Offers), float64(c.Shows)),
		WastedAgendas: c.Agendas - c.Sales,
	}
}

func ForClosers(cs []models.Closer) []CloserStats {
	out := make([]CloserStats, 0, len(cs))
	for _, c := range cs {
		out = append(out, ForCloser(c))
	}
	return out
}

type MethodStats struct {
	models.Method
	ROAS      Ratio `json:"roas"`
	CAC       Ratio `json:"cac"`
	ShowRate  Ratio `json:"showRate"`
	CloseRate Ratio `json:"closeRate"`
	// RankScore ordena métodos por cash/spend tomando spend=0 como 1,
	// así los canales orgánicos compiten con los pagados.
	RankScore float64 `json:"-"`
}

func ForMethod(m models.Method) MethodStats {
	spend := m.Spend
	if spend <= 0 {
		spend = 1
	}
	return MethodStats{
		Method:    m,
		ROAS:      Div(m.Cash, m.Spend),
		CAC:       Div(m.Spend, float64(m.Sales)),
		ShowRate:  Percent(float64(m.ShowsQ), float64(m.AgendasQ)),
		CloseRate: Percent(float64(m.Sales), float64(m.ShowsQ)),
		RankScore: m.Cash / spend,
	}
}

func ForMethods(ms []models.Method) []MethodStats {
	out := make([]MethodStats, 0, len(ms))
	for _, m := range ms {
		out = append(out, ForMethod(m))
	}
	return out
}

// Best recorre items y devuelve el de mayor key. En empate gana el primero
// visto; los valores no definidos nunca ganan.
func Best[T any](items []T, key func(T) Ratio) (T, bool) {
	return pick(items, key, func(a, b float64) bool { return a > b })
}

// Worst es Best con el orden invertido.
func Worst[T any](items []T, key func(T) Ratio) (T, bool) {
	return pick(items, key, func(a, b float64) bool { return a < b })
}

func pick[T any](items []T, key func(T) Ratio, better func(a, b float64) bool) (T, bool) {
	var (
		out   T
		cur   float64
		found bool
	)
	for _, it := range items {
		k := key(it)
		if !k.OK {
			continue
		}
		if !found || better(k.Value, cur) {
			out, cur, found = it, k.Value, true
		}
	}
	return out, found
}

// SortDesc ordena de forma estable por key descendente; indefinidos al final.
func SortDesc[T any](items []T, key func(T) Ratio) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if a.OK != b.OK {
			return a.OK
		}
		return a.Value > b.Value
	})
	return out
}

func TotalSpend(cs []models.Campaign) float64 {
	var s float64
	for _, c := range cs {
		s += c.Spend
	}
	return s
}

// AverageCTR promedia en decimal para que 14.0/8 quede en 1.75 exacto.
// Un CTR Inf/NaN deja el promedio sin definir.
func AverageCTR(cs []models.Campaign) Ratio {
	if len(cs) == 0 {
		return Ratio{}
	}
	sum := decimal.Zero
	for _, c := range cs {
		if math.IsInf(c.CTR, 0) || math.IsNaN(c.CTR) {
			return Ratio{}
		}
		sum = sum.Add(decimal.NewFromFloat(c.CTR))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(cs)))).Float64()
	return Known(avg)
}

// AverageCloseRate promedia sólo las tasas definidas.
func AverageCloseRate(cs []CloserStats) Ratio {
	sum := decimal.Zero
	n := 0
	for _, c := range cs {
		if !c.CloseRate.OK {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(c.CloseRate.Value))
		n++
	}
	if n == 0 {
		return Ratio{}
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(n))).Float64()
	return Known(avg)
}

func AverageCash(cs []models.Closer) Ratio {
	var s float64
	for _, c := range cs {
		s += c.Cash
	}
	return Div(s, float64(len(cs)))
}

// LowPerformers devuelve, en orden, las campañas con ROAS por debajo de min.
func LowPerformers(cs []models.Campaign, min float64) []models.Campaign {
	var out []models.Campaign
	for _, c := range cs {
		if c.ROAS < min {
			out = append(out, c)
		}
	}
	return out
}

func TopByROAS(cs []models.Campaign, n int) []models.Campaign {
	sorted := SortDesc(cs, func(c models.Campaign) Ratio { return Known(c.ROAS) })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
