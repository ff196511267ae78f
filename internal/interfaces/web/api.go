package web

import (
	"context"
	"errors"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// API operaciones de búsqueda y exportación que consume la página.
// UseCaseAPI las resuelve en proceso; pkg/client las resuelve contra /api por HTTP.
type API interface {
	Search(ctx context.Context, secteur, departement string) ([]entity.Entreprise, error)
	Export(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error)
}

// ServerMessager lo implementan los errores que traen un mensaje listo para mostrar.
type ServerMessager interface {
	ServerMessage() string
}

// ServerError error con el mensaje que el servidor devolvería en el campo "error".
type ServerError struct {
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ServerError) Unwrap() error { return e.Err }

// ServerMessage implementa ServerMessager.
func (e *ServerError) ServerMessage() string { return e.Message }

// messageFor devuelve el mensaje del servidor si lo hay, si no el genérico.
func messageFor(err error, fallback string) string {
	var sm ServerMessager
	if errors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}
	return fallback
}

// UseCaseAPI adaptador en proceso sobre los casos de uso de prospección.
type UseCaseAPI struct {
	search      *prospection.SearchUseCase
	export      *prospection.ExportUseCase
	annotations *prospection.AnnotationUseCase
	conseiller  string
}

var (
	_ API           = (*UseCaseAPI)(nil)
	_ AnnotationAPI = (*UseCaseAPI)(nil)
)

// NewUseCaseAPI construye el adaptador. conseiller queda como autor de las anotaciones
// cuando la petición no trae un conseiller autenticado.
func NewUseCaseAPI(search *prospection.SearchUseCase, export *prospection.ExportUseCase, annotations *prospection.AnnotationUseCase, conseiller string) *UseCaseAPI {
	return &UseCaseAPI{search: search, export: export, annotations: annotations, conseiller: conseiller}
}

// Search implementa API.
func (a *UseCaseAPI) Search(ctx context.Context, secteur, departement string) ([]entity.Entreprise, error) {
	resp, err := a.search.Search(ctx, dto.SearchRequest{Secteur: secteur, Departement: departement})
	if err != nil {
		return nil, wrapUseCaseError(err, "Erreur lors de la recherche : ")
	}
	return resp.Results, nil
}

// Export implementa API.
func (a *UseCaseAPI) Export(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error) {
	file, err := a.export.ExportXLSX(ctx, dto.ExportRequest{Results: records})
	if err != nil {
		return nil, wrapUseCaseError(err, "Erreur lors de l'export : ")
	}
	return file, nil
}

// author conseiller de la petición si lo hay, si no el configurado.
func (a *UseCaseAPI) author(ctx context.Context) string {
	if name := ConseillerFrom(ctx); name != "" {
		return name
	}
	return a.conseiller
}

// SaveStatut implementa AnnotationAPI.
func (a *UseCaseAPI) SaveStatut(ctx context.Context, siret, statut string) (string, error) {
	resp, err := a.annotations.SaveStatut(ctx, dto.SaveStatutRequest{Siret: siret, Statut: statut}, a.author(ctx))
	if err != nil {
		return "", wrapUseCaseError(err, "")
	}
	return resp.DateModification, nil
}

// SaveField implementa AnnotationAPI.
func (a *UseCaseAPI) SaveField(ctx context.Context, siret, field, value string) error {
	if _, err := a.annotations.SaveField(ctx, dto.SaveFieldRequest{Siret: siret, Field: field, Value: value}, a.author(ctx)); err != nil {
		return wrapUseCaseError(err, "")
	}
	return nil
}

// wrapUseCaseError reproduce el mensaje que daría la API HTTP para el mismo error.
func wrapUseCaseError(err error, prefix string) error {
	msg := prospection.UserMessage(err)
	if msg == "" && prefix != "" {
		msg = prefix + err.Error()
	}
	return &ServerError{Message: msg, Err: err}
}
