package entity

import "strings"

// EtatActif es la etiqueta del estado administrativo de un establecimiento abierto.
const EtatActif = "Actif"

// Entreprise representa un establecimiento devuelto por la búsqueda (SIRET) con los campos
// de anotación ya fusionados. Los tags JSON son el formato de intercambio con la interfaz.
type Entreprise struct {
	Siret          string `json:"siret"`
	Siren          string `json:"siren"`
	Nom            string `json:"nom"`
	Adresse        string `json:"adresse"`
	Telephone      string `json:"telephone"`
	Secteur        string `json:"secteur"`
	Dirigeant      string `json:"dirigeant"`
	Effectif       string `json:"effectif"`
	Etat           string `json:"etat"`
	PappersURL     string `json:"pappers_url"`
	PagesJaunesURL string `json:"pagesjaunes_url"`
	OpcoURL        string `json:"opco_url"`

	// Anotaciones fusionadas (servidor o almacén local).
	Statut           string `json:"statut"`
	DateModification string `json:"date_modification"`
	Funbooster       string `json:"funbooster"`
	Observation      string `json:"observation"`
}

// IsActive informa si el establecimiento está en estado "Actif".
func (e Entreprise) IsActive() bool {
	return strings.TrimSpace(e.Etat) == EtatActif
}

// WithAnnotation devuelve una copia con el estado y los campos libres indicados.
func (e Entreprise) WithAnnotation(a Annotation, f FieldAnnotation) Entreprise {
	e.Statut = string(a.Statut)
	e.DateModification = a.DateModification
	e.Funbooster = f.Funbooster
	e.Observation = f.Observation
	return e
}

// FilterActive conserva solo los establecimientos activos, respetando el orden.
func FilterActive(list []Entreprise) []Entreprise {
	out := make([]Entreprise, 0, len(list))
	for _, e := range list {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	return out
}
