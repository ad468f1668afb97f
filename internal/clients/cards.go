package clients

import (
	"fmt"

	"github.com/AngelCh415/admira-dashboard/internal/format"
)

// Card es una tarjeta KPI tal como la pinta el dashboard.
type Card struct {
	Title     string `json:"title"`
	Value     string `json:"value"`
	Variation string `json:"variation"`
}

// Cards devuelve las cuatro filas de la sección "TOTAL (Adquisición)".
// Las variaciones vs mes anterior son fijas en la demo.
func Cards(s Snapshot) [][]Card {
	return [][]Card{
		{
			{"Inversión en publicidad", format.Money0(float64(s.Investment)), "+15% vs mes anterior"},
			{"Impresiones", format.Int(s.Impressions), "+8% vs mes anterior"},
			{"CTR", format.Fixed(s.CTR, 1) + "%", "+0.3% vs mes anterior"},
			{"VSL PLAY RATE %", format.Fixed(s.VSLPlayRate, 1) + "%", "+2.1% vs mes anterior"},
		},
		{
			{"VSL ENGAGEMENT %", format.Fixed(s.VSLEngagement, 1) + "%", "+1.8% vs mes anterior"},
			{"Reuniones agendadas", fmt.Sprint(s.MeetingsScheduled), "+12% vs mes anterior"},
			{"Reuniones calificadas", fmt.Sprint(s.MeetingsQualified), "+15% vs mes anterior"},
			{"Reuniones asistidas (show rate)", fmt.Sprintf("%d (%s)", s.MeetingsAttended, format.Pct(s.ShowRate)), "+15% vs mes anterior"},
		},
		{
			{"Llamadas cerradas (close rate)", fmt.Sprintf("%d (%s)", s.CallsClosed, format.Pct(s.CloseRate)), "+8% vs mes anterior"},
			{"Facturación", format.Money0(float64(s.Revenue)), "+18.5% vs mes anterior"},
			{"Cash Collected", format.Money0(float64(s.Cash)), "+22.1% vs mes anterior"},
			{"Ticket promedio", format.Money0(float64(s.AvgTicket)), "+5.7% vs mes anterior"},
		},
		{
			{"Costo por agenda calificada", format.Money2(s.CostPerQualified), "-8.3% vs mes anterior"},
			{"Costo por show", format.Money2(s.CostPerShow), "-12.1% vs mes anterior"},
			{"Costo por adquisición (CAC)", format.Money2(s.CAC), "-6.8% vs mes anterior"},
			{"ROAS", format.Times(s.ROAS), "+0.4x vs mes anterior"},
		},
	}
}
