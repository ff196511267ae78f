package entity

import (
	"strings"
	"time"
)

// Statut etiqueta de seguimiento de la prospección sobre un establecimiento (conjunto cerrado).
type Statut string

const (
	StatutATraiter     Statut = "A traiter"
	StatutAppele       Statut = "Appelé"
	StatutARappeler    Statut = "A rappeler"
	StatutInteresse    Statut = "Intéressé"
	StatutPasInteresse Statut = "Pas intéressé"
	StatutRDVFixe      Statut = "RDV fixé"
)

// Couleurs triple de colores (texto, fondo, borde) con el que se pinta el selector.
type Couleurs struct {
	Texte   string
	Fond    string
	Bordure string
}

// statuts conserva el orden de presentación del selector.
var statuts = []Statut{
	StatutATraiter,
	StatutAppele,
	StatutARappeler,
	StatutInteresse,
	StatutPasInteresse,
	StatutRDVFixe,
}

var couleurs = map[Statut]Couleurs{
	StatutATraiter:     {Texte: "#374151", Fond: "#f3f4f6", Bordure: "#d1d5db"},
	StatutAppele:       {Texte: "#1e40af", Fond: "#dbeafe", Bordure: "#93c5fd"},
	StatutARappeler:    {Texte: "#9a3412", Fond: "#ffedd5", Bordure: "#fdba74"},
	StatutInteresse:    {Texte: "#166534", Fond: "#dcfce7", Bordure: "#86efac"},
	StatutPasInteresse: {Texte: "#991b1b", Fond: "#fee2e2", Bordure: "#fca5a5"},
	StatutRDVFixe:      {Texte: "#6b21a8", Fond: "#f3e8ff", Bordure: "#d8b4fe"},
}

// Statuts devuelve el conjunto cerrado en orden de presentación.
func Statuts() []Statut {
	out := make([]Statut, len(statuts))
	copy(out, statuts)
	return out
}

// ParseStatut normaliza un valor recibido. Vacío o desconocido → "A traiter".
func ParseStatut(s string) Statut {
	s = strings.TrimSpace(s)
	for _, st := range statuts {
		if string(st) == s {
			return st
		}
	}
	return StatutATraiter
}

// IsKnownStatut informa si s pertenece al conjunto cerrado.
func IsKnownStatut(s string) bool {
	_, ok := couleurs[Statut(strings.TrimSpace(s))]
	return ok
}

// Couleurs devuelve el triple de colores; los valores desconocidos usan los de "A traiter".
func (s Statut) Couleurs() Couleurs {
	if c, ok := couleurs[s]; ok {
		return c
	}
	return couleurs[StatutATraiter]
}

// Campos de texto libre anotables por establecimiento.
const (
	FieldFunbooster  = "funbooster"
	FieldObservation = "observation"
)

// IsKnownField informa si name es uno de los dos campos libres.
func IsKnownField(name string) bool {
	return name == FieldFunbooster || name == FieldObservation
}

// Annotation estado + fecha de modificación formateada. DateModification vacío equivale a null.
type Annotation struct {
	Statut           Statut `json:"statut"`
	DateModification string `json:"date_modification"`
}

// DefaultAnnotation anotación de un SIRET nunca anotado.
func DefaultAnnotation() Annotation {
	return Annotation{Statut: StatutATraiter}
}

// FieldAnnotation los dos campos libres; vacíos por defecto.
type FieldAnnotation struct {
	Funbooster  string `json:"funbooster"`
	Observation string `json:"observation"`
}

// With devuelve una copia con el campo name actualizado. Campos desconocidos se ignoran.
func (f FieldAnnotation) With(name, value string) FieldAnnotation {
	switch name {
	case FieldFunbooster:
		f.Funbooster = value
	case FieldObservation:
		f.Observation = value
	}
	return f
}

// AnnotationRecord fila persistida en el servidor (una por SIRET).
type AnnotationRecord struct {
	ID               string
	Siret            string
	Statut           Statut
	StatutModifiedAt *time.Time // nil = nunca se cambió el estado
	Funbooster       string
	Observation      string
	ModifiedBy       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Annotation proyecta el registro al contrato {statut, date_modification}.
func (r *AnnotationRecord) Annotation(loc *time.Location) Annotation {
	if r == nil {
		return DefaultAnnotation()
	}
	a := Annotation{Statut: ParseStatut(string(r.Statut))}
	if r.StatutModifiedAt != nil {
		a.DateModification = FormatDateModification(*r.StatutModifiedAt, loc)
	}
	return a
}

// Fields proyecta el registro a los dos campos libres.
func (r *AnnotationRecord) Fields() FieldAnnotation {
	if r == nil {
		return FieldAnnotation{}
	}
	return FieldAnnotation{Funbooster: r.Funbooster, Observation: r.Observation}
}

// DateModificationLayout patrón fijo (locale fr-FR) con el que se muestran las fechas.
const DateModificationLayout = "02/01/2006 15:04:05"

// FormatDateModification formatea t en la zona indicada (nil = UTC).
func FormatDateModification(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateModificationLayout)
}
