package web

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// Mensajes propios de la página (los de validación vienen de prospection).
const (
	MsgSearchFailed  = "Erreur lors de la recherche."
	MsgExportFailed  = "Erreur lors de l'export."
	MsgNoResults     = "Aucune entreprise trouvée pour ces critères."
	MsgExportSuccess = "Export Excel téléchargé avec succès."
)

// Download archivo que el navegador descarga tras una exportación correcta.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// PageView todo lo que necesita la plantilla para pintar la página.
type PageView struct {
	Secteur       string
	Departement   string
	Banner        Banner
	Loading       bool
	ExportEnabled bool
	Count         int
	Rows          []RowView
	// Conseiller autenticado; vacío cuando la interfaz no exige sesión.
	Conseiller string
}

type pulse struct {
	siret string
	field string
}

// Page estado de la interfaz de una sesión: criterios, resultados, aviso y botón de exportación.
// Los resultados viven en la propia página; cada controlador los recibe de aquí.
// El mutex no se mantiene durante las llamadas de red: dos envíos seguidos lanzan dos peticiones.
type Page struct {
	mu    sync.Mutex
	api   API
	store AnnotationStore
	log   zerolog.Logger
	now   func() time.Time

	secteur       string
	departement   string
	results       []entity.Entreprise
	banner        Banner
	loading       bool
	exportEnabled bool
	pulse         *pulse
}

// NewPage construye una página vacía: sin resultados y con la exportación desactivada.
func NewPage(api API, store AnnotationStore, log zerolog.Logger) *Page {
	return &Page{api: api, store: store, log: log, now: time.Now}
}

// WithClock sustituye el reloj usado en el nombre del archivo exportado (tests).
func (p *Page) WithClock(now func() time.Time) *Page {
	p.now = now
	return p
}

// Search valida los criterios, lanza una búsqueda y guarda los resultados.
func (p *Page) Search(ctx context.Context, secteur, departement string) {
	secteur = strings.TrimSpace(secteur)
	departement = strings.TrimSpace(departement)

	p.mu.Lock()
	p.secteur, p.departement = secteur, departement
	if secteur == "" || departement == "" {
		p.banner.Error(prospection.MsgMissingCriteria)
		p.mu.Unlock()
		return
	}
	p.loading = true
	p.exportEnabled = false
	p.banner.Clear()
	p.mu.Unlock()

	results, err := p.api.Search(ctx, secteur, departement)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { p.loading = false }()

	if err != nil {
		p.log.Error().Err(err).Str("secteur", secteur).Str("departement", departement).Msg("búsqueda fallida")
		p.banner.Error(messageFor(err, MsgSearchFailed))
		p.results = nil
		p.pulse = nil
		return
	}

	p.results = results
	p.pulse = nil
	if primer, ok := p.store.(Primer); ok {
		primer.Prime(results)
	}
	if len(results) == 0 {
		p.banner.Error(MsgNoResults)
		return
	}
	p.banner.Success(fmt.Sprintf("%d entreprise(s) trouvée(s).", len(results)))
	p.exportEnabled = true
}

// Export fusiona las anotaciones en los resultados actuales y pide la hoja de cálculo.
// ok es false cuando no hay nada que descargar; el motivo queda en el aviso.
// Solo se exporta lo que la página muestra con el botón activo.
func (p *Page) Export(ctx context.Context) (dl *Download, ok bool) {
	p.mu.Lock()
	if len(p.results) == 0 || !p.exportEnabled {
		p.banner.Error(prospection.MsgNothingToExport)
		p.mu.Unlock()
		return nil, false
	}
	merged := make([]entity.Entreprise, len(p.results))
	for i, r := range p.results {
		merged[i] = r.WithAnnotation(p.store.Get(r.Siret), p.store.GetFields(r.Siret))
	}
	p.mu.Unlock()

	file, err := p.api.Export(ctx, merged)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.log.Error().Err(err).Int("rows", len(merged)).Msg("exportación fallida")
		p.banner.Error(messageFor(err, MsgExportFailed))
		return nil, false
	}
	p.banner.Success(MsgExportSuccess)
	return &Download{
		Filename:    "entreprises_" + p.now().Format("2006-01-02") + ".xlsx",
		ContentType: file.ContentType,
		Body:        file.Body,
	}, true
}

// ChangeStatut guarda el nuevo estado de una fila y devuelve la fecha que muestra su celda.
// Valores fuera del conjunto cerrado se ignoran.
func (p *Page) ChangeStatut(ctx context.Context, siret, statut string) string {
	if !entity.IsKnownStatut(statut) {
		p.log.Warn().Str("siret", siret).Str("statut", statut).Msg("estado desconocido ignorado")
		return ""
	}
	return p.store.Set(ctx, siret, entity.ParseStatut(statut))
}

// SaveField guarda un campo libre; si se guardó, la próxima vista marca el input con "pulse".
func (p *Page) SaveField(ctx context.Context, siret, field, value string) bool {
	if !p.store.SetField(ctx, siret, field, value) {
		return false
	}
	p.mu.Lock()
	p.pulse = &pulse{siret: siret, field: field}
	p.mu.Unlock()
	return true
}

// View construye la vista actual. El pulso se muestra una sola vez.
func (p *Page) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := BuildRows(p.results, p.store)
	if p.pulse != nil {
		for i := range rows {
			if rows[i].Siret == p.pulse.siret {
				rows[i].PulseField = p.pulse.field
			}
		}
		p.pulse = nil
	}
	return PageView{
		Secteur:       p.secteur,
		Departement:   p.departement,
		Banner:        p.banner,
		Loading:       p.loading,
		ExportEnabled: p.exportEnabled,
		Count:         len(rows),
		Rows:          rows,
	}
}
