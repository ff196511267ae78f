package dto

import "github.com/jhoicas/prospection-api/internal/domain/entity"

// SearchRequest body de POST /api/search.
type SearchRequest struct {
	Secteur     string `json:"secteur"`
	Departement string `json:"departement"`
}

// SearchResponse resultados activos con las anotaciones ya fusionadas.
type SearchResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Results []entity.Entreprise `json:"results"`
}

// ExportRequest body de POST /api/export y /api/export/pdf.
type ExportRequest struct {
	Results []entity.Entreprise `json:"results"`
}

// SaveStatutRequest body de POST /api/save-statut.
type SaveStatutRequest struct {
	Siret  string `json:"siret"`
	Statut string `json:"statut"`
}

// SaveStatutResponse confirma la escritura con la fecha formateada.
type SaveStatutResponse struct {
	Success          bool   `json:"success"`
	DateModification string `json:"date_modification"`
}

// SaveFieldRequest body de POST /api/save-field.
type SaveFieldRequest struct {
	Siret string `json:"siret"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// SaveFieldResponse confirma la escritura de un campo libre.
type SaveFieldResponse struct {
	Success bool `json:"success"`
}

// OPCOResponse respuesta de GET /api/opco/:siret.
type OPCOResponse struct {
	Siret  string `json:"siret"`
	OPCO   string `json:"opco"`
	IDCC   string `json:"idcc"`
	Source string `json:"source"`
}
