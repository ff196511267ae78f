package web_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/interfaces/web"
)

func newPage(t *testing.T, api web.API) (*web.Page, *web.LocalStore) {
	t.Helper()
	store := newLocal(t, web.NewMemoryKV())
	p := web.NewPage(api, store, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
	return p, store
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestPage_Search_CampoVacio_SinPeticion(t *testing.T) {
	cases := []struct{ secteur, dep string }{
		{"", "75"},
		{"boulangerie", "   "},
		{" ", ""},
	}
	for _, tc := range cases {
		api := &fakeAPI{}
		p, _ := newPage(t, api)

		p.Search(context.Background(), tc.secteur, tc.dep)

		v := p.View()
		assert.Equal(t, 0, api.searchCalls)
		assert.Equal(t, web.BannerError, v.Banner.Kind)
		assert.Equal(t, prospection.MsgMissingCriteria, v.Banner.Message)
		assert.False(t, v.ExportEnabled)
	}
}

func TestPage_Search_DosResultados(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{
		ent("11111111100011", "Boulangerie A", entity.EtatActif),
		ent("22222222200022", "Boulangerie B", entity.EtatActif),
	}}
	p, _ := newPage(t, api)

	p.Search(context.Background(), " boulangerie ", "75")

	v := p.View()
	assert.Equal(t, 1, api.searchCalls)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, 1, v.Rows[0].Num)
	assert.Equal(t, 2, v.Rows[1].Num)
	assert.True(t, v.ExportEnabled)
	assert.False(t, v.Loading, "el indicador se apaga siempre")
	assert.Equal(t, web.BannerSuccess, v.Banner.Kind)
	assert.Contains(t, v.Banner.Message, "2")
	assert.Equal(t, "2 entreprise(s) trouvée(s).", v.Banner.Message)
	assert.Equal(t, "boulangerie", v.Secteur)
}

func TestPage_Search_SinResultados(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{}}
	p, _ := newPage(t, api)

	p.Search(context.Background(), "forge", "2A")

	v := p.View()
	assert.Empty(t, v.Rows)
	assert.False(t, v.ExportEnabled)
	assert.Equal(t, web.BannerError, v.Banner.Kind)
	assert.Equal(t, web.MsgNoResults, v.Banner.Message)
}

func TestPage_Search_ErrorDelServidor(t *testing.T) {
	api := &fakeAPI{searchErr: &web.ServerError{Message: "Erreur lors de la recherche : quota INSEE dépassé"}}
	p, _ := newPage(t, api)
	p.Search(context.Background(), "boulangerie", "75")
	assert.Equal(t, "Erreur lors de la recherche : quota INSEE dépassé", p.View().Banner.Message)

	api.searchErr = errors.New("dial tcp: connection refused")
	p.Search(context.Background(), "boulangerie", "75")
	v := p.View()
	assert.Equal(t, web.MsgSearchFailed, v.Banner.Message, "sin mensaje del servidor se usa el genérico")
	assert.False(t, v.Loading)
	assert.False(t, v.ExportEnabled)
}

func TestPage_Search_FallidaTrasExito_NoExportaResultadosViejos(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{ent("11111111100011", "A", entity.EtatActif)}}
	p, _ := newPage(t, api)
	ctx := context.Background()
	p.Search(ctx, "a", "75")
	require.True(t, p.View().ExportEnabled)

	api.searchErr = errors.New("dial tcp: connection refused")
	p.Search(ctx, "b", "13")

	v := p.View()
	assert.Empty(t, v.Rows, "la tabla no muestra resultados de otros criterios")
	assert.False(t, v.ExportEnabled)

	dl, ok := p.Export(ctx)
	assert.False(t, ok)
	assert.Nil(t, dl)
	assert.Equal(t, 0, api.exportCalls)
	assert.Equal(t, prospection.MsgNothingToExport, p.View().Banner.Message)
}

func TestPage_Search_ReemplazaAvisoAnterior(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{ent("11111111100011", "A", entity.EtatActif)}}
	p, _ := newPage(t, api)

	p.Search(context.Background(), "", "")
	p.Search(context.Background(), "a", "75")

	assert.Equal(t, web.BannerSuccess, p.View().Banner.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestPage_Export_SinResultados_SinPeticion(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newPage(t, api)

	dl, ok := p.Export(context.Background())

	assert.False(t, ok)
	assert.Nil(t, dl)
	assert.Equal(t, 0, api.exportCalls)
	v := p.View()
	assert.Equal(t, web.BannerError, v.Banner.Kind)
	assert.Equal(t, prospection.MsgNothingToExport, v.Banner.Message)
}

func TestPage_Export_FusionaAnotaciones(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{
		ent("11111111100011", "A", entity.EtatActif),
		ent("22222222200022", "B", entity.EtatActif),
	}}
	p, _ := newPage(t, api)
	ctx := context.Background()
	p.Search(ctx, "a", "75")
	p.ChangeStatut(ctx, "22222222200022", "Intéressé")
	p.SaveField(ctx, "22222222200022", entity.FieldFunbooster, "FB-7")

	dl, ok := p.Export(ctx)

	require.True(t, ok)
	assert.Equal(t, "entreprises_2026-03-14.xlsx", dl.Filename)
	assert.Equal(t, []byte("PK-fake"), dl.Body)
	assert.Equal(t, 1, api.exportCalls)
	require.Len(t, api.exported, 2)
	assert.Equal(t, "A traiter", api.exported[0].Statut)
	assert.Equal(t, "Intéressé", api.exported[1].Statut)
	assert.Equal(t, "14/03/2026 10:26:53", api.exported[1].DateModification)
	assert.Equal(t, "FB-7", api.exported[1].Funbooster)
	assert.Equal(t, web.MsgExportSuccess, p.View().Banner.Message)
}

func TestPage_Export_ErrorDelServidor(t *testing.T) {
	api := &fakeAPI{
		results:   []entity.Entreprise{ent("11111111100011", "A", "Fermé")},
		exportErr: &web.ServerError{Message: prospection.MsgNoActiveToExport},
	}
	p, _ := newPage(t, api)
	p.Search(context.Background(), "a", "75")

	_, ok := p.Export(context.Background())

	assert.False(t, ok)
	assert.Equal(t, prospection.MsgNoActiveToExport, p.View().Banner.Message)

	api.exportErr = errors.New("EOF")
	_, ok = p.Export(context.Background())
	assert.False(t, ok)
	assert.Equal(t, web.MsgExportFailed, p.View().Banner.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anotaciones por fila
// ──────────────────────────────────────────────────────────────────────────────

func TestPage_ChangeStatut_SoloCambiaSuFila(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{
		ent("11111111100011", "A", entity.EtatActif),
		ent("22222222200022", "B", entity.EtatActif),
	}}
	p, store := newPage(t, api)
	ctx := context.Background()
	p.Search(ctx, "a", "75")

	date := p.ChangeStatut(ctx, "11111111100011", "RDV fixé")

	assert.Equal(t, "14/03/2026 10:26:53", date)
	v := p.View()
	assert.Equal(t, "14/03/2026 10:26:53", v.Rows[0].DateModification)
	assert.Equal(t, "RDV fixé", v.Rows[0].Statut)
	assert.Empty(t, v.Rows[1].DateModification)
	assert.Equal(t, entity.DefaultAnnotation(), store.Get("22222222200022"))
}

func TestPage_ChangeStatut_Desconocido(t *testing.T) {
	p, store := newPage(t, &fakeAPI{})

	assert.Empty(t, p.ChangeStatut(context.Background(), "1", "Perdu"))
	assert.Equal(t, entity.DefaultAnnotation(), store.Get("1"))
}

func TestPage_SaveField_PulsoUnaSolaVez(t *testing.T) {
	api := &fakeAPI{results: []entity.Entreprise{ent("11111111100011", "A", entity.EtatActif)}}
	p, _ := newPage(t, api)
	ctx := context.Background()
	p.Search(ctx, "a", "75")

	require.True(t, p.SaveField(ctx, "11111111100011", entity.FieldObservation, "rappeler"))

	v := p.View()
	assert.Equal(t, entity.FieldObservation, v.Rows[0].PulseField)
	assert.Equal(t, "rappeler", v.Rows[0].Observation)
	assert.Empty(t, p.View().Rows[0].PulseField)

	assert.False(t, p.SaveField(ctx, "11111111100011", "telephone", "x"))
	assert.Empty(t, p.View().Rows[0].PulseField)
}

func TestPage_RemoteStore_PrimeYFusionDelServidor(t *testing.T) {
	e := ent("11111111100011", "A", entity.EtatActif)
	e.Statut, e.DateModification, e.Funbooster = "Appelé", "10/03/2026 12:00:00", "FB-1"
	api := &fakeAPI{results: []entity.Entreprise{e}}
	store := web.NewRemoteStore(newFakeAnnotationAPI("14/03/2026 10:26:53"), zerolog.Nop())
	p := web.NewPage(api, store, zerolog.Nop())
	ctx := context.Background()

	p.Search(ctx, "a", "75")
	row := p.View().Rows[0]
	assert.Equal(t, "Appelé", row.Statut)
	assert.Equal(t, "10/03/2026 12:00:00", row.DateModification)
	assert.Equal(t, "FB-1", row.Funbooster)

	p.ChangeStatut(ctx, e.Siret, "A rappeler")
	_, ok := p.Export(ctx)
	require.True(t, ok)
	assert.Equal(t, "A rappeler", api.exported[0].Statut)
	assert.Equal(t, "14/03/2026 10:26:53", api.exported[0].DateModification)
	assert.Equal(t, "FB-1", api.exported[0].Funbooster)
}
