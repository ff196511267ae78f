package web

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// Claves fijas de los dos blobs JSON del almacén local.
const (
	KeyStatuts = "entreprises_statuts"
	KeyChamps  = "entreprises_champs"
)

type statutsBlob map[string]entity.Annotation
type champsBlob map[string]entity.FieldAnnotation

// LocalStore guarda las anotaciones en dos blobs JSON de un KeyValue (estado y campos libres).
// Cada escritura relee el blob, modifica una clave y lo persiste de inmediato.
type LocalStore struct {
	mu  sync.Mutex
	kv  KeyValue
	loc *time.Location
	now func() time.Time
	log zerolog.Logger
}

var _ AnnotationStore = (*LocalStore)(nil)

// NewLocalStore construye el almacén. loc es la zona de las fechas (nil = UTC).
func NewLocalStore(kv KeyValue, loc *time.Location, log zerolog.Logger) *LocalStore {
	if loc == nil {
		loc = time.UTC
	}
	return &LocalStore{kv: kv, loc: loc, now: time.Now, log: log}
}

// WithClock sustituye el reloj (tests).
func (s *LocalStore) WithClock(now func() time.Time) *LocalStore {
	s.now = now
	return s
}

// Get implementa AnnotationStore. Estados desconocidos vuelven a "A traiter".
func (s *LocalStore) Get(siret string) entity.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.statuts(context.Background())[siret]
	if !ok {
		return entity.DefaultAnnotation()
	}
	a.Statut = entity.ParseStatut(string(a.Statut))
	return a
}

// Set implementa AnnotationStore.
func (s *LocalStore) Set(ctx context.Context, siret string, statut entity.Statut) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.statuts(ctx)
	date := entity.FormatDateModification(s.now(), s.loc)
	all[siret] = entity.Annotation{Statut: entity.ParseStatut(string(statut)), DateModification: date}
	if !s.save(ctx, KeyStatuts, all) {
		return ""
	}
	return date
}

// GetFields implementa AnnotationStore.
func (s *LocalStore) GetFields(siret string) entity.FieldAnnotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.champs(context.Background())[siret]
}

// SetField implementa AnnotationStore. Solo acepta funbooster y observation.
func (s *LocalStore) SetField(ctx context.Context, siret, field, value string) bool {
	if !entity.IsKnownField(field) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.champs(ctx)
	all[siret] = all[siret].With(field, value)
	return s.save(ctx, KeyChamps, all)
}

func (s *LocalStore) statuts(ctx context.Context) statutsBlob {
	out := statutsBlob{}
	s.load(ctx, KeyStatuts, &out)
	return out
}

func (s *LocalStore) champs(ctx context.Context) champsBlob {
	out := champsBlob{}
	s.load(ctx, KeyChamps, &out)
	return out
}

// load decodifica el blob; un blob ausente o corrupto equivale a vacío.
func (s *LocalStore) load(ctx context.Context, key string, into interface{}) {
	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("almacén local: lectura fallida")
		return
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("almacén local: blob ilegible, se ignora")
	}
}

func (s *LocalStore) save(ctx context.Context, key string, v interface{}) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("almacén local: serialización fallida")
		return false
	}
	if err := s.kv.SetItem(ctx, key, string(raw)); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("almacén local: escritura fallida")
		return false
	}
	return true
}
