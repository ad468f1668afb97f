package assistant

import (
	"fmt"
	"math"
	"strings"

	"github.com/AngelCh415/admira-dashboard/internal/format"
	"github.com/AngelCh415/admira-dashboard/internal/metrics"
	"github.com/AngelCh415/admira-dashboard/internal/models"
)

const (
	// lowROAS: por debajo de esto una campaña se propone para apagar.
	lowROAS = 10
	// scaleTop: cuántas campañas se sugieren para recibir presupuesto.
	scaleTop = 3

	noCampaigns = "📭 **No hay campañas cargadas para analizar.**"
	noClosers   = "📭 **No hay closers cargados para analizar.**"
	noMethods   = "📭 **No hay métodos cargados para analizar.**"
)

const Greeting = "¡Hola! Soy tu asistente de datos inteligente. Puedo analizar tus campañas, identificar anuncios ganadores, recomendar qué apagar, y darte insights sobre el rendimiento de tus closers. ¿Qué quieres saber?"

func byROAS(c models.Campaign) metrics.Ratio { return metrics.Known(c.ROAS) }
func byCTR(c models.Campaign) metrics.Ratio  { return metrics.Known(c.CTR) }

func campaignsOf(ds models.Dataset) []models.Campaign { return ds.PrimaryAd().Campaigns }

func winningAd(ds models.Dataset) string {
	best, ok := metrics.Best(campaignsOf(ds), byROAS)
	if !ok {
		return noCampaigns
	}
	roas := format.Plain(best.ROAS)
	return fmt.Sprintf("🏆 **Tu anuncio ganador es %s** con un ROAS de %sx\n\n"+
		"**¿Por qué es el ganador?**\n"+
		"• ROAS más alto: %sx\n"+
		"• Cash generado: %s\n"+
		"• %d ventas cerradas\n"+
		"• Inversión: %s\n"+
		"• CTR: %s%%\n\n"+
		"**Recomendación:** Escala este anuncio aumentando el presupuesto en un 20-30%% para maximizar resultados.",
		best.Name, roas, roas, format.Money(best.Cash), best.Sales, format.Money(best.Spend), format.Plain(best.CTR))
}

func adsToPause(ds models.Dataset) string {
	cs := campaignsOf(ds)
	worst, ok := metrics.Worst(cs, byROAS)
	if !ok {
		return noCampaigns
	}
	stats := metrics.ForCampaigns(cs)
	// El CAC más alto entre las campañas que sí vendieron.
	costly, hasCAC := metrics.Best(stats, func(s metrics.CampaignStats) metrics.Ratio { return s.CAC })

	var b strings.Builder
	b.WriteString("🚨 **ANUNCIOS A APAGAR - Análisis Completo:**\n\n")
	b.WriteString("**1. Por ROAS (Retorno):**\n")
	fmt.Fprintf(&b, "• **%s** - ROAS %sx (CRÍTICO)\n", worst.Name, format.Plain(worst.ROAS))
	fmt.Fprintf(&b, "• Gasto: %s sin retorno\n\n", format.Money(worst.Spend))
	b.WriteString("**2. Por Costo de Adquisición:**\n")
	if hasCAC {
		fmt.Fprintf(&b, "• **%s** - CAC %s por venta\n", costly.Name, format.Money2(costly.CAC))
		b.WriteString("• Muy alto costo vs otros anuncios\n\n")
	} else {
		fmt.Fprintf(&b, "• Ninguna campaña registra ventas: CAC %s\n\n", format.NA)
	}
	b.WriteString("**3. Por Asistencia (No-Shows):**\n")
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("• %s: Show rate %s (%d agendas → %d shows)", s.Name, format.Pct(s.ShowRate), s.AgendasQ, s.ShowsQ))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n**4. Por Calidad de Leads:**\n")
	lines = lines[:0]
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("• %s: Close rate %s (%d shows → %d ventas)", s.Name, format.Pct(s.CloseRate), s.ShowsQ, s.Sales))
	}
	b.WriteString(strings.Join(lines, "\n"))

	pause := []string{worst.Name}
	if hasCAC {
		pause = uniq(append(pause, costly.Name))
	}
	top := metrics.TopByROAS(cs, scaleTop)
	fmt.Fprintf(&b, "\n\n**🎯 RECOMENDACIÓN FINAL:**\nPausa %s inmediatamente. Redistribuye presupuesto hacia %s (ROAS %sx+).",
		joinNames(bold(pause)), strings.Join(names(top), ", "), format.Plain(top[len(top)-1].ROAS))
	return b.String()
}

func noShows(ds models.Dataset) string {
	stats := metrics.ForCampaigns(campaignsOf(ds))
	worst, ok := metrics.Worst(stats, func(s metrics.CampaignStats) metrics.Ratio { return s.ShowRate })
	if !ok {
		return noCampaigns
	}
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("• %s: %d/%d shows (%s asistencia)", s.Name, s.ShowsQ, s.AgendasQ, format.Pct(s.ShowRate)))
	}
	return fmt.Sprintf("📊 **ANÁLISIS DE ASISTENCIA (No-Shows):**\n\n"+
		"**🚨 Peor en asistencia:** %s\n"+
		"• Show rate: %s\n"+
		"• No-show rate: %s\n"+
		"• %d agendas → solo %d shows\n\n"+
		"**Comparativa por campaña:**\n%s\n\n"+
		"**🎯 RECOMENDACIÓN:** %s trae leads que no asisten. Revisa el targeting y la calidad del mensaje.",
		worst.Name, format.Pct(worst.ShowRate), format.Pct(worst.NoShowRate), worst.AgendasQ, worst.ShowsQ,
		strings.Join(lines, "\n"), worst.Name)
}

func leadQuality(ds models.Dataset) string {
	stats := metrics.ForCampaigns(campaignsOf(ds))
	worst, ok := metrics.Worst(stats, func(s metrics.CampaignStats) metrics.Ratio { return s.CloseRate })
	if !ok {
		return noCampaigns
	}
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("• %s: %d/%d ventas (%s close rate)", s.Name, s.Sales, s.ShowsQ, format.Pct(s.CloseRate)))
	}
	return fmt.Sprintf("💰 **ANÁLISIS DE CALIDAD DE LEADS:**\n\n"+
		"**🚨 Peor en conversión:** %s\n"+
		"• Close rate: %s\n"+
		"• Calidad de leads: %s\n"+
		"• %d shows → solo %d ventas\n\n"+
		"**Comparativa por campaña:**\n%s\n\n"+
		"**🎯 RECOMENDACIÓN:** %s trae leads que no compran. Revisa el targeting y el mensaje para atraer mejor audiencia.",
		worst.Name, format.Pct(worst.CloseRate), format.Pct(worst.LeadQuality), worst.ShowsQ, worst.Sales,
		strings.Join(lines, "\n"), worst.Name)
}

func bestCloseRate(ds models.Dataset) string {
	stats := metrics.ForCampaigns(campaignsOf(ds))
	key := func(s metrics.CampaignStats) metrics.Ratio { return s.CloseRate }
	best, ok := metrics.Best(stats, key)
	if !ok {
		return noCampaigns
	}
	ranked := metrics.SortDesc(stats, key)
	lines := make([]string, 0, len(ranked))
	for i, s := range ranked {
		lines = append(lines, fmt.Sprintf("%d. %s: %s (%d/%d)", i+1, s.Name, format.Pct(s.CloseRate), s.Sales, s.ShowsQ))
	}
	return fmt.Sprintf("🏆 **MEJOR TASA DE CIERRE:**\n\n"+
		"**Ganador:** %s\n"+
		"• Close rate: %s\n"+
		"• %d ventas de %d shows\n"+
		"• Cash generado: %s\n\n"+
		"**Ranking completo:**\n%s\n\n"+
		"**🎯 RECOMENDACIÓN:** Duplica la estrategia de %s en otras campañas.",
		best.Name, format.Pct(best.CloseRate), best.Sales, best.ShowsQ, format.Money(best.Cash),
		strings.Join(lines, "\n"), best.Name)
}

func closers(ds models.Dataset) string {
	stats := metrics.ForClosers(ds.Closers)
	closeRate := func(c metrics.CloserStats) metrics.Ratio { return c.CloseRate }
	best, ok := metrics.Best(stats, closeRate)
	if !ok {
		return noClosers
	}
	worst, _ := metrics.Worst(stats, closeRate)
	earner, _ := metrics.Best(stats, func(c metrics.CloserStats) metrics.Ratio { return metrics.Known(c.Cash) })
	noShow, _ := metrics.Best(stats, func(c metrics.CloserStats) metrics.Ratio { return c.NoShowRate })
	wasted, _ := metrics.Best(stats, func(c metrics.CloserStats) metrics.Ratio { return metrics.Known(float64(c.WastedAgendas)) })

	return fmt.Sprintf("👥 **ANÁLISIS COMPLETO DE CLOSERS:**\n\n"+
		"**🏆 Mejor tasa de cierre:** %s\n"+
		"• Close rate: %s\n"+
		"• %d ventas de %d shows\n\n"+
		"**💰 Más facturó:** %s\n"+
		"• Cash: %s\n"+
		"• Ventas: %d\n\n"+
		"**🚨 Peor tasa de cierre:** %s\n"+
		"• Close rate: %s (CRÍTICO)\n"+
		"• Solo %d ventas\n\n"+
		"**❌ Más no-shows:** %s\n"+
		"• No-show rate: %s\n"+
		"• %d agendas → %d shows\n\n"+
		"**💸 Más desaprovechó agendas:** %s\n"+
		"• %d agendas perdidas\n"+
		"• %d total → %d ventas\n\n"+
		"**🎯 RECOMENDACIONES:**\n"+
		"• Entrenar a %s con técnicas de %s\n"+
		"• Dar más leads a %s\n"+
		"• Ultimátum a %s",
		best.Name, format.Pct(best.CloseRate), best.Sales, best.Shows,
		earner.Name, format.Money(earner.Cash), earner.Sales,
		worst.Name, format.Pct(worst.CloseRate), worst.Sales,
		noShow.Name, format.Pct(noShow.NoShowRate), noShow.Agendas, noShow.Shows,
		wasted.Name, wasted.WastedAgendas, wasted.Agendas, wasted.Sales,
		worst.Name, best.Name,
		joinNames(uniq([]string{best.Name, earner.Name})),
		joinNames(uniq([]string{worst.Name, wasted.Name})))
}

func roas(ds models.Dataset) string {
	ad := ds.PrimaryAd()
	overall := metrics.Div(ad.Cash, ad.Spend)
	lines := make([]string, 0, len(ad.Campaigns))
	for _, c := range ad.Campaigns {
		lines = append(lines, fmt.Sprintf("• %s: %sx (%s)", c.Name, format.Plain(c.ROAS), format.Money(c.Cash)))
	}
	verdict := "Hay margen de mejora: revisa las campañas con ROAS bajo."
	if overall.Or(0) >= 3 {
		verdict = "¡Excelente rendimiento!"
	}
	per := format.NA
	if overall.OK {
		per = "$" + format.Fixed(overall.Value, 1)
	}
	return fmt.Sprintf("💰 **Análisis de ROAS:**\n\n"+
		"**ROAS General:** %s\n"+
		"• Inversión total: %s\n"+
		"• Cash generado: %s\n\n"+
		"**ROAS por campaña:**\n%s\n\n"+
		"**Interpretación:** Un ROAS de %s significa que por cada $1 invertido, generas %s en ventas. %s",
		format.Times(overall), format.Money(ad.Spend), format.Money(ad.Cash),
		strings.Join(lines, "\n"), format.Times(overall), per, verdict)
}

func ctr(ds models.Dataset) string {
	cs := campaignsOf(ds)
	best, ok := metrics.Best(cs, byCTR)
	if !ok {
		return noCampaigns
	}
	lines := make([]string, 0, len(cs))
	for _, c := range cs {
		lines = append(lines, fmt.Sprintf("• %s: %s%%", c.Name, format.Plain(c.CTR)))
	}
	return fmt.Sprintf("🎯 **Análisis de CTR:**\n\n"+
		"**CTR Promedio:** %s\n"+
		"**Mejor CTR:** %s con %s%%\n\n"+
		"**CTR por campaña:**\n%s\n\n"+
		"**Benchmark:** Un CTR del 1-2%% es bueno para Meta Ads. %s está por encima del promedio. Considera usar su creatividad en otras campañas.",
		format.Pct(metrics.AverageCTR(cs)), best.Name, format.Plain(best.CTR),
		strings.Join(lines, "\n"), best.Name)
}

func methods(ds models.Dataset) string {
	stats := metrics.ForMethods(ds.Methods)
	best, ok := metrics.Best(stats, func(m metrics.MethodStats) metrics.Ratio { return metrics.Known(m.RankScore) })
	if !ok {
		return noMethods
	}
	lines := make([]string, 0, len(stats))
	for _, m := range stats {
		lines = append(lines, fmt.Sprintf("• %s: %s (%d ventas)", m.Name, format.Money(m.Cash), m.Sales))
	}
	return fmt.Sprintf("📈 **Análisis de Métodos:**\n\n"+
		"**Mejor método:** %s\n"+
		"• Cash: %s\n"+
		"• Ventas: %d\n"+
		"• Inversión: %s\n"+
		"• ROAS: %s\n\n"+
		"**Comparativa:**\n%s\n\n"+
		"**Recomendación:** %s es tu canal más efectivo. Considera aumentar la inversión en este método.",
		best.Name, format.Money(best.Cash), best.Sales, format.Money(best.Spend), format.Times(best.ROAS),
		strings.Join(lines, "\n"), best.Name)
}

func sellMore(ds models.Dataset) string {
	cs := campaignsOf(ds)
	best, ok := metrics.Best(cs, byROAS)
	if !ok {
		return noCampaigns
	}
	low := metrics.LowPerformers(cs, lowROAS)
	parts := make([]string, 0, len(low))
	for _, c := range low {
		parts = append(parts, fmt.Sprintf("%s (ROAS %sx, %s)", c.Name, format.Plain(c.ROAS), format.Money(c.Spend)))
	}
	toPause := strings.Join(parts, ", ")
	if toPause == "" {
		toPause = "—"
	}
	return fmt.Sprintf("🚀 **Plan para vender más (acciones directas):**\n\n"+
		"1) **Apaga:** %s\n"+
		"2) **Mete ese presupuesto en:** %s (ROAS %sx)\n"+
		"3) **Por qué:** Maximiza retorno moviendo %s de campañas sin resultados hacia la campaña top.\n"+
		"4) **Siguiente paso:** Revisa creatividades del top performer y duplica con 20-30%% más presupuesto.",
		toPause, best.Name, format.Plain(best.ROAS), format.Money(metrics.TotalSpend(low)))
}

func bottleneck(ds models.Dataset) string {
	vsl := ds.VSL
	drop := vsl.MajorDropMinute
	retention := format.NA
	if drop >= 0 && drop < len(vsl.RetentionByMinutePct) {
		retention = format.Plain(vsl.RetentionByMinutePct[drop]) + "%"
	}
	from := drop - 1
	if from < 0 {
		from = 0
	}
	return fmt.Sprintf("🧪 **Cuello de botella detectado:**\n\n"+
		"• **Ads (CTR):** %s (saludable)\n"+
		"• **VSL (engagement):** %s%% (BAJO)\n"+
		"• **Pérdida masiva:** Minuto %d — retención al %s\n"+
		"• **Pipeline:** Citas y shows razonables; el problema aparece antes del call.\n\n"+
		"🎯 **Qué cambiar ahora:**\n"+
		"• Re-editar el VSL desde el minuto %d al %d.\n"+
		"• **Cambia el minuto %d**: ahí se va ~50%% de las personas.\n"+
		"• Agrega patrón-interrupt, beneficio 1-2 frases antes del CTA, y prueba otro hook.\n"+
		"• Mantén duración similar; enfoca en claridad de la promesa y prueba social.\n\n"+
		"💡 **Siguiente experimento:** 2 nuevas versiones del VSL cambiando solo esa sección; mide retención minuto a minuto en 72h.",
		format.Pct(metrics.AverageCTR(campaignsOf(ds))), format.Fixed(vsl.EngagementPct, 1), drop, retention,
		from, drop+1, drop)
}

func recommendations(ds models.Dataset) string {
	cs := campaignsOf(ds)
	best, ok := metrics.Best(cs, byROAS)
	if !ok {
		return noCampaigns
	}
	low := metrics.LowPerformers(cs, lowROAS)
	lowSpend := metrics.TotalSpend(low)

	var b strings.Builder
	b.WriteString("🎯 **CAMBIOS RECOMENDADOS URGENTES:**\n\n")
	b.WriteString("**🚨 1. APAGAR ANUNCIOS:**\n")
	for _, c := range low {
		label := "MUY BAJO"
		if c.ROAS < 1 {
			label = "CRÍTICO"
		}
		fmt.Fprintf(&b, "• **%s** - ROAS %sx (%s)\n", c.Name, format.Plain(c.ROAS), label)
	}
	fmt.Fprintf(&b, "• Gasto total: %s con mal retorno\n", format.Money(lowSpend))
	if len(low) > 0 {
		fmt.Fprintf(&b, "• **ACCIÓN:** Pausar %s inmediatamente\n\n", joinNames(names(low)))
	} else {
		b.WriteString("• **ACCIÓN:** Ningún anuncio por debajo del umbral; mantener\n\n")
	}
	b.WriteString("**📈 2. ESCALAR ANUNCIOS:**\n")
	fmt.Fprintf(&b, "• **%s** - ROAS %sx\n", best.Name, format.Plain(best.ROAS))
	b.WriteString("• **ACCIÓN:** Aumentar presupuesto 30%\n\n")
	stats := metrics.ForClosers(ds.Closers)
	if worst, ok := metrics.Worst(stats, func(c metrics.CloserStats) metrics.Ratio { return c.CloseRate }); ok {
		b.WriteString("**👥 3. REVISAR CLOSERS:**\n")
		fmt.Fprintf(&b, "• **%s** - Close rate %s\n", worst.Name, format.Pct(worst.CloseRate))
		b.WriteString("• **ACCIÓN:** Ultimátum 30 días o reemplazo\n\n")
	}
	b.WriteString("**💰 IMPACTO ESTIMADO:**\n")
	fmt.Fprintf(&b, "• Ahorro inmediato: %s\n", format.Money(lowSpend))
	fmt.Fprintf(&b, "• Potencial ganancia: +%s\n", format.Money0(math.Round(best.Cash*0.3)))
	b.WriteString("• Mejora en ventas: +20-30%")
	return b.String()
}

func closerTermination(ds models.Dataset) string {
	stats := metrics.ForClosers(ds.Closers)
	worst, ok := metrics.Worst(stats, func(c metrics.CloserStats) metrics.Ratio { return c.CloseRate })
	if !ok {
		return noClosers
	}
	avg := metrics.AverageCloseRate(stats)
	gap := format.NA
	if avg.OK {
		gap = format.Fixed(avg.Value-worst.CloseRate.Value, 1) + "%"
	}
	avgCash := format.NA
	if r := metrics.AverageCash(ds.Closers); r.OK {
		avgCash = format.Money0(r.Value)
	}
	return fmt.Sprintf("🚨 **ANÁLISIS DE DESPIDO - %s:**\n\n"+
		"**📊 MÉTRICAS CRÍTICAS:**\n"+
		"• Close rate: %s (Promedio: %s)\n"+
		"• Ventas: %d (Muy bajo)\n"+
		"• Cash generado: %s\n"+
		"• Show rate: %s\n\n"+
		"**⚠️ PROBLEMAS IDENTIFICADOS:**\n"+
		"• Close rate %s por debajo del promedio\n"+
		"• Genera solo %s vs promedio de %s\n"+
		"• Performance consistente baja\n\n"+
		"**🎯 RECOMENDACIÓN:**\n"+
		"**DESPEDIR** - %s está costando dinero al negocio. Su close rate de %s es inaceptable. Reemplazar con nuevo talento o redistribuir leads a closers top performers.",
		worst.Name, format.Pct(worst.CloseRate), format.Pct(avg), worst.Sales, format.Money(worst.Cash), format.Pct(worst.ShowRate),
		gap, format.Money(worst.Cash), avgCash,
		worst.Name, format.Pct(worst.CloseRate))
}

const helpText = `🤖 **Puedo ayudarte con análisis avanzados:**

**📊 ANUNCIOS:**
• "¿Qué anuncio debería apagar?"
• "¿Qué anuncio no me rinde?"
• "¿Qué anuncio me trae personas que no asisten?"
• "¿Qué anuncio me trae leads que no compran?"
• "¿Qué anuncio tiene la mejor tasa de cierre?"

**👥 CLOSERS:**
• "¿Qué closer tiene peor tasa de cierre?"
• "¿Qué closer facturó más esta semana?"
• "¿Quién desaprovechó más agendas?"
• "¿Qué closer tiene la tasa de no-show más alta?"

**🎯 OPTIMIZACIÓN:**
• "¿Qué cambios debería hacer?"
• "Dame recomendaciones para vender más"
• "¿Cuál es mi cuello de botella?"
• "¿Cuál es mi ROAS general?"

**Ejemplos específicos:**
• "¿Qué anuncio me trae leads que no compran?"
• "¿Qué closer desaprovechó más agendas?"
• "¿Cuál es mi cuello de botella?"`

const defaultText = `🤔 **No estoy seguro de entender tu pregunta.**

Puedo ayudarte con:
• Análisis de campañas y anuncios
• Identificar anuncios ganadores o perdedores
• Análisis de closers y ventas
• Métricas de ROAS, CTR, etc.

**Intenta preguntar:**
• "¿Cuál es mi anuncio ganador?"
• "¿Qué anuncio debería apagar?"
• "¿Cómo van mis closers?"
• "¿Cuál es mi ROAS?"`

func names(cs []models.Campaign) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func bold(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = "**" + s + "**"
	}
	return out
}

func uniq(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := ss[:0:0]
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// joinNames: "A", "A y B", "A, B y C".
func joinNames(ss []string) string {
	switch len(ss) {
	case 0:
		return ""
	case 1:
		return ss[0]
	}
	return strings.Join(ss[:len(ss)-1], ", ") + " y " + ss[len(ss)-1]
}
