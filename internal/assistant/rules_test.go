package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/AngelCh415/admira-dashboard/internal/ingest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClassify(t *testing.T) {
	an := NewAnalyzer(ingest.Default())
	cases := []struct {
		q    string
		want Category
	}{
		{"¿Cuál es mi anuncio ganador?", CategoryWinningAd},
		{"CAMPAÑA GANADORA", CategoryWinningAd},
		{"¿Qué anuncio debería apagar?", CategoryAdsToPause},
		{"¿Qué anuncio no me rinde?", CategoryAdsToPause},
		{"¿Qué anuncio me trae personas que no asisten?", CategoryNoShows},
		// "no-show" también está en closers, pero no_shows va antes.
		{"¿Qué closer tiene la tasa de no-show más alta?", CategoryNoShows},
		{"¿Qué anuncio me trae leads que no compran?", CategoryLeadQuality},
		{"¿Qué anuncio tiene la mejor tasa de cierre?", CategoryBestCloseRate},
		{"¿Qué closer tiene peor tasa de cierre?", CategoryClosers},
		{"¿Quién desaprovechó más agendas?", CategoryClosers},
		{"¿Qué closer debería despedir?", CategoryClosers},
		{"¿Cuál es mi ROAS general?", CategoryROAS},
		{"¿Cómo va el CTR?", CategoryCTR},
		{"¿Qué método funciona mejor?", CategoryMethods},
		{"Dame recomendaciones para vender más", CategorySellMore},
		{"¿Cuál es mi cuello de botella?", CategoryBottleneck},
		{"¿Qué cambios debería hacer?", CategoryRecommendations},
		{"¿A quién debería despedir?", CategoryCloserTermination},
		{"ayuda", CategoryHelp},
		{"hola", CategoryDefault},
		{"", CategoryDefault},
	}
	for _, c := range cases {
		t.Run(c.q, func(t *testing.T) {
			assert.Equal(t, c.want, an.Classify(c.q))
			assert.Equal(t, c.want, an.Analyze(c.q).Category)
		})
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	assert.Equal(t, CategoryWinningAd, cats[0])
	assert.Equal(t, CategoryDefault, cats[len(cats)-1])
	assert.Len(t, cats, 15)
}

func TestDefaultAndHelpAreStatic(t *testing.T) {
	an := NewAnalyzer(ingest.Default())
	assert.Equal(t, defaultText, an.Analyze("¿qué tal el clima?").Text)
	assert.Equal(t, helpText, an.Analyze("help").Text)
}
