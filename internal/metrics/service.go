package metrics

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

// Service arma las tablas del dashboard sobre el dataset inyectado.
type Service struct{ ds models.Dataset }

func NewService(ds models.Dataset) *Service { return &Service{ds: ds} }
func norm(s string) string                 { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

type AdTotals struct {
	Spend         float64 `json:"spend"`
	Impressions   int     `json:"impressions"`
	AgendasQ      int     `json:"agendasQ"`
	ShowsQ        int     `json:"showsQ"`
	Sales         int     `json:"sales"`
	Cash          float64 `json:"cash"`
	Reservas      int     `json:"reservas"`
	ValorReservas float64 `json:"valorReservas"`
	CPAQ          Ratio   `json:"cpaq"`
	CPSQ          Ratio   `json:"cpsq"`
	CAC           Ratio   `json:"cac"`
	ROAS          Ratio   `json:"roas"`
}

type AdRow struct {
	AdID      string          `json:"adId"`
	AdName    string          `json:"adName"`
	Medium    string          `json:"medium"`
	Sales     int             `json:"sales"`
	Campaigns []CampaignStats `json:"campaigns"`
	Totals    AdTotals        `json:"totals"`
}

// QueryAds: filtro por medium (csv), orden por ventas desc, paginado.
func (s *Service) QueryAds(v url.Values) ([]AdRow, error) {
	mediums := csvSet(v.Get("medium"))
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)

	rows := make([]AdRow, 0, len(s.ds.Ads))
	for _, ad := range s.ds.Ads {
		if len(mediums) > 0 {
			if _, ok := mediums[norm(ad.Medium)]; !ok {
				continue
			}
		}
		rows = append(rows, AdRow{
			AdID:      ad.AdID,
			AdName:    ad.AdName,
			Medium:    ad.Medium,
			Sales:     ad.Sales,
			Campaigns: ForCampaigns(ad.Campaigns),
			Totals:    adTotals(ad.Campaigns),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sales > rows[j].Sales })

	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset), nil
}

func adTotals(cs []models.Campaign) AdTotals {
	var t AdTotals
	for _, c := range cs {
		t.Spend += c.Spend
		t.Impressions += c.Impressions
		t.AgendasQ += c.AgendasQ
		t.ShowsQ += c.ShowsQ
		t.Sales += c.Sales
		t.Cash += c.Cash
		if c.Reservas != nil {
			t.Reservas += *c.Reservas
		}
		if c.ValorReservas != nil {
			t.ValorReservas += *c.ValorReservas
		}
	}
	t.Spend = round2(t.Spend)
	t.Cash = round2(t.Cash)
	t.CPAQ = Div(t.Spend, float64(t.AgendasQ))
	t.CPSQ = Div(t.Spend, float64(t.ShowsQ))
	t.CAC = Div(t.Spend, float64(t.Sales))
	t.ROAS = Div(t.Cash, t.Spend)
	return t
}

type MethodTable struct {
	Rows   []MethodStats `json:"rows"`
	Totals struct {
		Spend   float64 `json:"spend"`
		Sales   int     `json:"sales"`
		Cash    float64 `json:"cash"`
		Billing float64 `json:"billing"`
		ROAS    Ratio   `json:"roas"`
	} `json:"totals"`
}

func (s *Service) QueryMethods(v url.Values) (MethodTable, error) {
	names := csvSet(v.Get("method"))
	var t MethodTable
	t.Rows = []MethodStats{}
	for _, m := range s.ds.Methods {
		if len(names) > 0 {
			if _, ok := names[norm(m.Name)]; !ok {
				continue
			}
		}
		t.Rows = append(t.Rows, ForMethod(m))
		t.Totals.Spend += m.Spend
		t.Totals.Sales += m.Sales
		t.Totals.Cash += m.Cash
		t.Totals.Billing += m.Billing
	}
	t.Totals.ROAS = Div(t.Totals.Cash, t.Totals.Spend)
	return t, nil
}

type CloserTable struct {
	Rows   []CloserStats `json:"rows"`
	Totals struct {
		Leads     int     `json:"leads"`
		Agendas   int     `json:"agendas"`
		Shows     int     `json:"shows"`
		Offers    int     `json:"offers"`
		Sales     int     `json:"sales"`
		Cash      float64 `json:"cash"`
		CloseRate Ratio   `json:"closeRate"`
		ShowRate  Ratio   `json:"showRate"`
	} `json:"totals"`
}

// QueryClosers acepta sort=closeRate|cash|sales (desc); sin sort respeta el orden del dataset.
func (s *Service) QueryClosers(v url.Values) (CloserTable, error) {
	var t CloserTable
	t.Rows = ForClosers(s.ds.Closers)
	for _, c := range s.ds.Closers {
		t.Totals.Leads += c.Leads
		t.Totals.Agendas += c.Agendas
		t.Totals.Shows += c.Shows
		t.Totals.Offers += c.Offers
		t.Totals.Sales += c.Sales
		t.Totals.Cash += c.Cash
	}
	t.Totals.CloseRate = Percent(float64(t.Totals.Sales), float64(t.Totals.Shows))
	t.Totals.ShowRate = Percent(float64(t.Totals.Shows), float64(t.Totals.Agendas))

	switch norm(v.Get("sort")) {
	case "closerate":
		t.Rows = SortDesc(t.Rows, func(c CloserStats) Ratio { return c.CloseRate })
	case "cash":
		t.Rows = SortDesc(t.Rows, func(c CloserStats) Ratio { return Known(c.Cash) })
	case "sales":
		t.Rows = SortDesc(t.Rows, func(c CloserStats) Ratio { return Known(float64(c.Sales)) })
	}
	return t, nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
