// Package assistant responde preguntas sobre el dataset con reglas de
// palabras clave. Las reglas se evalúan en orden y gana la primera que
// coincide, así que el orden de la tabla es parte del comportamiento.
package assistant

import (
	"strings"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

type Category string

const (
	CategoryWinningAd         Category = "winning_ad"
	CategoryAdsToPause        Category = "ads_to_pause"
	CategoryNoShows           Category = "no_shows"
	CategoryLeadQuality       Category = "lead_quality"
	CategoryBestCloseRate     Category = "best_close_rate"
	CategoryClosers           Category = "closers"
	CategoryROAS              Category = "roas"
	CategoryCTR               Category = "ctr"
	CategoryMethods           Category = "methods"
	CategorySellMore          Category = "sell_more"
	CategoryBottleneck        Category = "bottleneck"
	CategoryRecommendations   Category = "recommendations"
	CategoryCloserTermination Category = "closer_termination"
	CategoryHelp              Category = "help"
	CategoryDefault           Category = "default"
)

type rule struct {
	category Category
	keywords []string
	answer   func(models.Dataset) string
}

// rules: el orden importa ("no-show" aparece en dos reglas y gana la primera).
var rules = []rule{
	{CategoryWinningAd, []string{"anuncio ganador", "mejor anuncio", "campaña ganadora"}, winningAd},
	{CategoryAdsToPause, []string{"apagar", "pausar", "quitar", "no me rinde", "no rinde", "no rendimiento"}, adsToPause},
	{CategoryNoShows, []string{"no asisten", "no asistencia", "no-show", "personas que no asisten", "no shows"}, noShows},
	{CategoryLeadQuality, []string{"no compran", "no compra", "leads que no compran", "calidad de leads", "leads de baja calidad"}, leadQuality},
	{CategoryBestCloseRate, []string{"mejor tasa de cierre", "mejor cierre", "mejor conversión"}, bestCloseRate},
	{CategoryClosers, []string{"closer", "vendedor", "ventas", "tasa de cierre", "peor tasa", "mejor tasa", "facturó más", "desaprovechó", "no-show"}, closers},
	{CategoryROAS, []string{"roas", "retorno"}, roas},
	{CategoryCTR, []string{"ctr", "click"}, ctr},
	{CategoryMethods, []string{"método", "canal", "medio"}, methods},
	{CategorySellMore, []string{"vender más", "vender mas", "recomendaciones para vender"}, sellMore},
	{CategoryBottleneck, []string{"cuello de botella", "bottleneck"}, bottleneck},
	{CategoryRecommendations, []string{"cambio", "cambios", "recomendación", "recomendaciones"}, recommendations},
	{CategoryCloserTermination, []string{"despedir", "despido", "mala tasa", "mal rendimiento"}, closerTermination},
	{CategoryHelp, []string{"ayuda", "help"}, func(models.Dataset) string { return helpText }},
}

func (r rule) matches(q string) bool {
	for _, k := range r.keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// Categories lista las categorías en orden de evaluación, default al final.
func Categories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, CategoryDefault)
}

type Answer struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Analyzer responde sobre un dataset fijo; es seguro para uso concurrente.
type Analyzer struct{ ds models.Dataset }

func NewAnalyzer(ds models.Dataset) *Analyzer { return &Analyzer{ds: ds} }

func (a *Analyzer) Classify(question string) Category {
	if r, ok := match(question); ok {
		return r.category
	}
	return CategoryDefault
}

// Analyze nunca falla: lo que no coincide cae en la respuesta por defecto.
func (a *Analyzer) Analyze(question string) Answer {
	r, ok := match(question)
	if !ok {
		return Answer{Category: CategoryDefault, Text: defaultText}
	}
	return Answer{Category: r.category, Text: r.answer(a.ds)}
}

func match(question string) (rule, bool) {
	q := strings.ToLower(question)
	for _, r := range rules {
		if r.matches(q) {
			return r, true
		}
	}
	return rule{}, false
}
