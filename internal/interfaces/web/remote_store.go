package web

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// AnnotationAPI escrituras de anotaciones en el servidor (POST /api/save-statut y /api/save-field).
type AnnotationAPI interface {
	SaveStatut(ctx context.Context, siret, statut string) (dateModification string, err error)
	SaveField(ctx context.Context, siret, field, value string) error
}

// RemoteStore persiste en el servidor y lee de una caché alimentada con los resultados fusionados.
// La caché conserva lo que el usuario eligió o escribió aunque la escritura falle; la fecha
// solo cambia cuando el servidor la confirma.
type RemoteStore struct {
	mu     sync.RWMutex
	api    AnnotationAPI
	log    zerolog.Logger
	notes  map[string]entity.Annotation
	fields map[string]entity.FieldAnnotation
}

var (
	_ AnnotationStore = (*RemoteStore)(nil)
	_ Primer          = (*RemoteStore)(nil)
)

// NewRemoteStore construye el almacén con la caché vacía.
func NewRemoteStore(api AnnotationAPI, log zerolog.Logger) *RemoteStore {
	return &RemoteStore{
		api:    api,
		log:    log,
		notes:  map[string]entity.Annotation{},
		fields: map[string]entity.FieldAnnotation{},
	}
}

// Prime carga en la caché las anotaciones que el servidor fusionó en los resultados.
func (s *RemoteStore) Prime(records []entity.Entreprise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.notes[r.Siret] = entity.Annotation{Statut: entity.ParseStatut(r.Statut), DateModification: r.DateModification}
		s.fields[r.Siret] = entity.FieldAnnotation{Funbooster: r.Funbooster, Observation: r.Observation}
	}
}

// Get implementa AnnotationStore.
func (s *RemoteStore) Get(siret string) entity.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.notes[siret]; ok {
		return a
	}
	return entity.DefaultAnnotation()
}

// Set implementa AnnotationStore. Un error de red se registra y devuelve "".
func (s *RemoteStore) Set(ctx context.Context, siret string, statut entity.Statut) string {
	s.mu.Lock()
	a, ok := s.notes[siret]
	if !ok {
		a = entity.DefaultAnnotation()
	}
	a.Statut = statut
	s.notes[siret] = a
	s.mu.Unlock()

	date, err := s.api.SaveStatut(ctx, siret, string(statut))
	if err != nil {
		s.log.Error().Err(err).Str("siret", siret).Str("statut", string(statut)).Msg("guardar estado fallido")
		return ""
	}

	s.mu.Lock()
	if cur, ok := s.notes[siret]; ok && cur.Statut == statut {
		cur.DateModification = date
		s.notes[siret] = cur
	}
	s.mu.Unlock()
	return date
}

// GetFields implementa AnnotationStore.
func (s *RemoteStore) GetFields(siret string) entity.FieldAnnotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields[siret]
}

// SetField implementa AnnotationStore. Un error de red se registra y devuelve false.
func (s *RemoteStore) SetField(ctx context.Context, siret, field, value string) bool {
	if !entity.IsKnownField(field) {
		return false
	}
	s.mu.Lock()
	s.fields[siret] = s.fields[siret].With(field, value)
	s.mu.Unlock()

	if err := s.api.SaveField(ctx, siret, field, value); err != nil {
		s.log.Error().Err(err).Str("siret", siret).Str("field", field).Msg("guardar campo fallido")
		return false
	}
	return true
}
