package web

import (
	"fmt"
	"html/template"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// Clases CSS de la etiqueta de estado administrativo.
const (
	BadgeActif   = "badge-actif"
	BadgeInactif = "badge-inactif"
)

// StatutOption opción del selector de estado.
type StatutOption struct {
	Value    string
	Selected bool
}

// Link enlace externo opcional de una fila.
type Link struct {
	Label string
	URL   string
}

// RowView fila lista para pintar: datos del resultado fusionados con el almacén de anotaciones.
type RowView struct {
	Num              int
	Siret            string
	Siren            string
	Nom              string
	Adresse          string
	Telephone        string
	Secteur          string
	Dirigeant        string
	Effectif         string
	Etat             string
	BadgeClass       string
	Links            []Link
	Statut           string
	StatutOptions    []StatutOption
	StatutStyle      template.CSS
	DateModification string
	Funbooster       string
	Observation      string
	PulseField       string // campo recién guardado (clase "pulse" transitoria)
}

// BuildRows fusiona cada resultado con su anotación y sus campos libres. No hace I/O de página.
func BuildRows(records []entity.Entreprise, store AnnotationStore) []RowView {
	rows := make([]RowView, 0, len(records))
	for i, r := range records {
		a := store.Get(r.Siret)
		f := store.GetFields(r.Siret)

		badge := BadgeInactif
		if r.IsActive() {
			badge = BadgeActif
		}

		rows = append(rows, RowView{
			Num:              i + 1,
			Siret:            r.Siret,
			Siren:            r.Siren,
			Nom:              r.Nom,
			Adresse:          r.Adresse,
			Telephone:        r.Telephone,
			Secteur:          r.Secteur,
			Dirigeant:        r.Dirigeant,
			Effectif:         r.Effectif,
			Etat:             r.Etat,
			BadgeClass:       badge,
			Links:            rowLinks(r),
			Statut:           string(a.Statut),
			StatutOptions:    statutOptions(a.Statut),
			StatutStyle:      statutStyle(a.Statut),
			DateModification: a.DateModification,
			Funbooster:       f.Funbooster,
			Observation:      f.Observation,
		})
	}
	return rows
}

func rowLinks(r entity.Entreprise) []Link {
	var links []Link
	if r.PappersURL != "" {
		links = append(links, Link{Label: "Pappers", URL: r.PappersURL})
	}
	if r.PagesJaunesURL != "" {
		links = append(links, Link{Label: "PagesJaunes", URL: r.PagesJaunesURL})
	}
	if r.OpcoURL != "" {
		links = append(links, Link{Label: "OPCO", URL: r.OpcoURL})
	}
	return links
}

func statutOptions(current entity.Statut) []StatutOption {
	all := entity.Statuts()
	out := make([]StatutOption, len(all))
	for i, s := range all {
		out[i] = StatutOption{Value: string(s), Selected: s == current}
	}
	return out
}

// statutStyle los colores salen de una tabla cerrada, nunca de la entrada del usuario.
func statutStyle(s entity.Statut) template.CSS {
	c := s.Couleurs()
	return template.CSS(fmt.Sprintf("color:%s;background-color:%s;border-color:%s", c.Texte, c.Fond, c.Bordure)) //nolint:gosec
}
