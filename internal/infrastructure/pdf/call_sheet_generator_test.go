package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

func TestGenerateCallSheet(t *testing.T) {
	rows := []entity.Entreprise{
		{
			Nom: "BOULANGERIE MARTIN", Adresse: "3 RUE DU FOUR, 75006 PARIS", Telephone: "01 23 45 67 89",
			Siret: "73282932000074", Effectif: "6 à 9 salariés", Dirigeant: "Paul MARTIN",
			Statut: "RDV fixé", DateModification: "14/03/2026 10:26:53", Observation: "mardi 14h",
			PappersURL: "https://www.pappers.fr/entreprise/732829320",
		},
		{Nom: "FOURNIL", Siret: "55210055400013"},
	}

	data, err := NewCallSheetGenerator(time.UTC).GenerateCallSheet(context.Background(), rows, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateCallSheet_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCallSheetGenerator(nil).GenerateCallSheet(ctx, []entity.Entreprise{{Nom: "A"}}, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetailAndNotesLines(t *testing.T) {
	e := entity.Entreprise{Siret: "73282932000074", Effectif: "0 à 1", Funbooster: "oui"}
	assert.Equal(t, "SIRET 73282932000074   |   0 à 1", detailLine(e))
	assert.Equal(t, "FunBooster : oui", notesLine(e))
	assert.Empty(t, notesLine(entity.Entreprise{}))
}
