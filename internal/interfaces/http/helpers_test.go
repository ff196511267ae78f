package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/infrastructure/opco"
	"github.com/jhoicas/prospection-api/internal/infrastructure/pdf"
	"github.com/jhoicas/prospection-api/internal/infrastructure/sirene"
	"github.com/jhoicas/prospection-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/prospection-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/prospection-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// buildTestApp arma la API con adaptadores reales: proveedor demo, SQLite en memoria,
// generadores xlsx/pdf y un resolver OPCO sin red (France Compétences apuntando a un 503).
func buildTestApp(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	fc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(fc.Close)

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	clock := func() time.Time { return fixedNow }

	annotations := prospection.NewAnnotationUseCase(sqlite.NewAnnotationRepository(db), paris).WithClock(clock)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SearchUC:     prospection.NewSearchUseCase(prospection.NewFallbackSearcher(prospection.NamedSearcher{Name: "demo", Searcher: sirene.Demo{}}), annotations),
		ExportUC:     prospection.NewExportUseCase(xlsx.NewGenerator(), pdf.NewCallSheetGenerator(paris)).WithClock(clock),
		AnnotationUC: annotations,
		OPCOUC:       prospection.NewOPCOUseCase(opco.NewResolver(fc.URL, time.Second, zerolog.Nop())),
		JWTSecret:    jwtSecret,
		Log:          zerolog.Nop(),
	})
	return app
}

// doJSON lanza una petición con cuerpo JSON y cabeceras opcionales (clave, valor, ...).
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
