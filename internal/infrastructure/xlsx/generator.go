// Package xlsx genera el libro Excel de exportación de establecimientos.
package xlsx

import (
	"bytes"
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// SheetName nombre de la única hoja del libro.
const SheetName = "Entreprises"

type column struct {
	header string
	width  float64
	value  func(entity.Entreprise) string
}

// columns orden fijo de las columnas exportadas.
var columns = []column{
	{"Nom", 30, func(e entity.Entreprise) string { return e.Nom }},
	{"Adresse", 40, func(e entity.Entreprise) string { return e.Adresse }},
	{"Téléphone", 20, func(e entity.Entreprise) string { return e.Telephone }},
	{"Secteur", 20, func(e entity.Entreprise) string { return e.Secteur }},
	{"SIRET", 18, func(e entity.Entreprise) string { return e.Siret }},
	{"SIREN", 15, func(e entity.Entreprise) string { return e.Siren }},
	{"Effectif", 15, func(e entity.Entreprise) string { return e.Effectif }},
	{"État", 15, func(e entity.Entreprise) string { return e.Etat }},
	{"Statut", 20, func(e entity.Entreprise) string { return e.Statut }},
	{"Date de modification", 25, func(e entity.Entreprise) string { return e.DateModification }},
	{"FunBooster", 20, func(e entity.Entreprise) string { return e.Funbooster }},
	{"Observation", 30, func(e entity.Entreprise) string { return e.Observation }},
	{"Lien OPCO (France Compétences)", 40, func(e entity.Entreprise) string { return e.OpcoURL }},
	{"Lien Dirigeant (Pappers)", 50, func(e entity.Entreprise) string { return e.PappersURL }},
	{"Lien Téléphone (PagesJaunes)", 50, func(e entity.Entreprise) string { return e.PagesJaunesURL }},
}

// Headers devuelve los títulos de columna en orden.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

// Generator implementa prospection.SpreadsheetGenerator con tealeg/xlsx.
type Generator struct{}

var _ prospection.SpreadsheetGenerator = (*Generator)(nil)

// NewGenerator construye el generador.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateSpreadsheet escribe una fila de cabecera y una fila por establecimiento.
// Las filas llegan ya filtradas y limpias desde el caso de uso.
func (g *Generator) GenerateSpreadsheet(ctx context.Context, rows []entity.Entreprise) ([]byte, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}

	header := headerStyle()
	hr := sheet.AddRow()
	for _, c := range columns {
		cell := hr.AddCell()
		cell.SetString(c.header)
		cell.SetStyle(header)
	}

	body := bodyStyle()
	for i, e := range rows {
		if i%500 == 0 && ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		r := sheet.AddRow()
		for _, c := range columns {
			cell := r.AddCell()
			cell.SetString(c.value(e))
			cell.SetStyle(body)
		}
	}

	for i, c := range columns {
		sheet.SetColWidth(i, i, c.width)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "xlsx: write workbook")
	}
	return buf.Bytes(), nil
}

func headerStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Fill = *xlsx.NewFill("solid", "FF366092", "FF366092")
	font := xlsx.NewFont(11, "Calibri")
	font.Bold = true
	font.Color = "FFFFFFFF"
	s.Font = *font
	s.Alignment = xlsx.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	s.ApplyFill = true
	s.ApplyFont = true
	s.ApplyAlignment = true
	return s
}

func bodyStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Alignment = xlsx.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}
	s.ApplyAlignment = true
	return s
}
