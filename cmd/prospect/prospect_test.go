package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/pkg/client"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de terminal
// ──────────────────────────────────────────────────────────────────────────────

func sample() []entity.Entreprise {
	return []entity.Entreprise{
		{Siret: "11111111100011", Nom: "Boulangerie Pâtisserie du Marché Saint-Éloi", Telephone: "01 23 45 67 89", Dirigeant: "Jean DUPONT", Effectif: "3 à 5", PappersURL: "https://www.pappers.fr/recherche-dirigeants?q=111111111", Secteur: "10.71C"},
		{Siret: "22222222200022", Nom: "Café 東京", Effectif: "0 salarié", Secteur: "56.30Z"},
	}
}

func TestRenderTable_AnchoFijo(t *testing.T) {
	out := renderTable(sample(), nil, 100)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6, "borde, cabecera, separador, 2 filas, borde")
	for _, l := range lines {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(l), "todas las líneas miden lo mismo")
	}
	assert.LessOrEqual(t, runewidth.StringWidth(lines[0]), 100)
	assert.Contains(t, lines[1], "Entreprise")
	assert.NotContains(t, lines[1], "OPCO")
	assert.Contains(t, lines[4], "Café 東京")
}

func TestRenderTable_TruncaYMuestraOPCO(t *testing.T) {
	out := renderTable(sample(), map[string]string{"11111111100011": "OPCO EP"}, 80)

	assert.Contains(t, out, "OPCO EP")
	assert.Contains(t, out, "…", "los nombres largos se truncan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución OPCO concurrente
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	inFlight, maxInFlight int32
	mu                    sync.Mutex
	errs                  map[string]error
}

func (f *fakeBackend) Search(context.Context, string, string) ([]entity.Entreprise, error) {
	return nil, nil
}

func (f *fakeBackend) Export(context.Context, []entity.Entreprise) (*dto.FileResponse, error) {
	return nil, nil
}

func (f *fakeBackend) ExportPDF(context.Context, []entity.Entreprise) (*dto.FileResponse, error) {
	return nil, nil
}

func (f *fakeBackend) OPCO(_ context.Context, siret, ape string) (*dto.OPCOResponse, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	f.mu.Lock()
	if n > f.maxInFlight {
		f.maxInFlight = n
	}
	err := f.errs[siret]
	f.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	if err != nil {
		return nil, err
	}
	return &dto.OPCOResponse{Siret: siret, OPCO: "OPCO " + ape}, nil
}

func TestResolveOPCOs_LimiteDeConcurrencia(t *testing.T) {
	var results []entity.Entreprise
	for i := 0; i < 12; i++ {
		results = append(results, entity.Entreprise{Siret: strings.Repeat(string(rune('a'+i)), 14), Secteur: "10.71C"})
	}
	b := &fakeBackend{errs: map[string]error{
		results[3].Siret: domain.ErrNotFound,
		results[5].Siret: &client.APIError{Status: 404},
	}}

	out, err := resolveOPCOs(context.Background(), b, results, 3)

	require.NoError(t, err)
	assert.Len(t, out, 10, "los no encontrados no aparecen")
	assert.Equal(t, "OPCO 10.71C", out[results[0].Siret])
	assert.LessOrEqual(t, b.maxInFlight, int32(3))
}

func TestResolveOPCOs_ErrorCancela(t *testing.T) {
	results := sample()
	b := &fakeBackend{errs: map[string]error{results[1].Siret: errors.New("boom")}}

	_, err := resolveOPCOs(context.Background(), b, results, 2)

	assert.EqualError(t, err, "boom")
}

func TestUserError(t *testing.T) {
	assert.EqualError(t, userError(domain.ErrMissingCriteria), "Veuillez remplir les champs Secteur et Département.")
	other := errors.New("x")
	assert.Equal(t, other, userError(other))
}
