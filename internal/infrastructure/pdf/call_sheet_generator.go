// Package pdf genera la hoja de llamadas (fiche d'appels) de una prospección.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + número de establecimientos │ Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Entreprise / Adresse | Téléphone | Statut       │
//	│  por fila: SIRET, effectif, dirigeant, notas + QR Pappers    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 54, Green: 96, Blue: 146}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 200, Green: 200, Blue: 200}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CallSheetGenerator implementa prospection.CallSheetGenerator usando Maroto v2.
type CallSheetGenerator struct {
	loc *time.Location
}

var _ prospection.CallSheetGenerator = (*CallSheetGenerator)(nil)

// NewCallSheetGenerator construye el generador; loc es la zona de la fecha impresa (nil = UTC).
func NewCallSheetGenerator(loc *time.Location) *CallSheetGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &CallSheetGenerator{loc: loc}
}

// GenerateCallSheet genera el PDF y devuelve sus bytes.
func (g *CallSheetGenerator) GenerateCallSheet(ctx context.Context, rows []entity.Entreprise, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fiche d'appels", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(len(rows), generatedAt.In(g.loc)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for i, e := range rows {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("pdf: %w", ctx.Err())
		}
		m.AddRows(entrepriseRows(i+1, e)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorLight, Thickness: 0.2}))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(count int, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("FICHE D'APPELS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d entreprise(s) active(s)", count), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Générée le "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N°", 1, align.Center),
		h("Entreprise / Adresse", 5, align.Left),
		h("Téléphone", 2, align.Left),
		h("Statut", 2, align.Left),
		h("Pappers", 2, align.Center),
	)
}

// entrepriseRows: línea principal + detalle + notas del conseiller.
func entrepriseRows(n int, e entity.Entreprise) []core.Row {
	statut := nonEmpty(e.Statut, string(entity.StatutATraiter))
	if e.DateModification != "" {
		statut += "\n" + e.DateModification
	}

	qr := col.New(2)
	if e.PappersURL != "" {
		qr = col.New(2).Add(code.NewQr(e.PappersURL, props.Rect{Percent: 90, Center: true}))
	}

	rows := []core.Row{
		row.New(18).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", n), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(
				text.New(e.Nom, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1}),
				text.New(nonEmpty(e.Adresse, "—"), props.Text{Size: 7.5, Top: 6, Left: 1, Color: colorGray}),
				text.New(detailLine(e), props.Text{Size: 7, Top: 12, Left: 1, Color: colorGray}),
			),
			col.New(2).Add(text.New(nonEmpty(e.Telephone, "—"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(statut, props.Text{Size: 8, Top: 1})),
			qr,
		),
	}

	if notes := notesLine(e); notes != "" {
		rows = append(rows, row.New(6).Add(
			col.New(1),
			col.New(11).Add(text.New(notes, props.Text{Size: 7.5, Top: 0.5, Left: 1})),
		))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Seules les entreprises à l'état Actif figurent sur cette fiche. "+
				"Les statuts et notes reflètent la dernière sauvegarde.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func detailLine(e entity.Entreprise) string {
	parts := []string{"SIRET " + nonEmpty(e.Siret, "—")}
	if e.Effectif != "" {
		parts = append(parts, e.Effectif)
	}
	if e.Dirigeant != "" {
		parts = append(parts, "Dirigeant : "+e.Dirigeant)
	}
	return strings.Join(parts, "   |   ")
}

func notesLine(e entity.Entreprise) string {
	var parts []string
	if e.Funbooster != "" {
		parts = append(parts, "FunBooster : "+e.Funbooster)
	}
	if e.Observation != "" {
		parts = append(parts, "Observation : "+e.Observation)
	}
	return strings.Join(parts, "   |   ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
