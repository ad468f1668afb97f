package ingest

import (
	"errors"
	"fmt"
	"math"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

// Validate rechaza datos que romperían los cálculos: negativos, Inf/NaN y
// nombres vacíos o repetidos (el asistente identifica registros por nombre).
func Validate(ds models.Dataset) error {
	var errs []error
	for _, ad := range ds.Ads {
		seen := map[string]struct{}{}
		if ad.Spend < 0 || ad.Cash < 0 || ad.Sales < 0 || ad.Impressions < 0 {
			errs = append(errs, fmt.Errorf("ad %s: negative totals", ad.AdID))
		}
		if !finite(ad.Spend, ad.Cash, ad.CTR) {
			errs = append(errs, fmt.Errorf("ad %s: non-finite totals", ad.AdID))
		}
		for _, c := range ad.Campaigns {
			if c.Name == "" {
				errs = append(errs, fmt.Errorf("ad %s: campaign without name", ad.AdID))
				continue
			}
			if _, dup := seen[c.Name]; dup {
				errs = append(errs, fmt.Errorf("ad %s: duplicate campaign %s", ad.AdID, c.Name))
			}
			seen[c.Name] = struct{}{}
			if c.Spend < 0 || c.Cash < 0 || c.Sales < 0 || c.AgendasQ < 0 || c.ShowsQ < 0 || c.Impressions < 0 {
				errs = append(errs, fmt.Errorf("campaign %s: negative value", c.Name))
			}
			vals := []float64{c.Spend, c.Cash, c.CTR, c.ROAS}
			if c.ValorReservas != nil {
				vals = append(vals, *c.ValorReservas)
			}
			if !finite(vals...) {
				errs = append(errs, fmt.Errorf("campaign %s: non-finite value", c.Name))
			}
		}
	}
	seen := map[string]struct{}{}
	for _, c := range ds.Closers {
		if c.Name == "" {
			errs = append(errs, errors.New("closer without name"))
			continue
		}
		if _, dup := seen[c.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate closer %s", c.Name))
		}
		seen[c.Name] = struct{}{}
		if c.Leads < 0 || c.Agendas < 0 || c.Shows < 0 || c.Offers < 0 || c.Sales < 0 || c.Cash < 0 {
			errs = append(errs, fmt.Errorf("closer %s: negative value", c.Name))
		}
		if !finite(c.Cash) {
			errs = append(errs, fmt.Errorf("closer %s: non-finite value", c.Name))
		}
	}
	seen = map[string]struct{}{}
	for _, m := range ds.Methods {
		if m.Name == "" {
			errs = append(errs, errors.New("method without name"))
			continue
		}
		if _, dup := seen[m.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate method %s", m.Name))
		}
		seen[m.Name] = struct{}{}
		if m.Spend < 0 || m.Cash < 0 || m.Sales < 0 {
			errs = append(errs, fmt.Errorf("method %s: negative value", m.Name))
		}
		if !finite(m.Spend, m.Cash, m.Billing) {
			errs = append(errs, fmt.Errorf("method %s: non-finite value", m.Name))
		}
	}
	vsl := append([]float64{ds.VSL.PlayRatePct, ds.VSL.EngagementPct}, ds.VSL.RetentionByMinutePct...)
	if !finite(vsl...) {
		errs = append(errs, errors.New("vsl: non-finite value"))
	}
	return errors.Join(errs...)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// FunnelWarnings lista closers que no cumplen leads >= agendas >= shows >= sales.
// Es informativo: el dashboard muestra los datos igual.
func FunnelWarnings(ds models.Dataset) []string {
	var out []string
	for _, c := range ds.Closers {
		if !(c.Leads >= c.Agendas && c.Agendas >= c.Shows && c.Shows >= c.Sales) {
			out = append(out, fmt.Sprintf("%s: leads=%d agendas=%d shows=%d sales=%d",
				c.Name, c.Leads, c.Agendas, c.Shows, c.Sales))
		}
	}
	return out
}
