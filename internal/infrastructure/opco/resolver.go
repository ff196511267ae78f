// Package opco resuelve el OPCO y la convención colectiva (IDCC) de un establecimiento.
package opco

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

const (
	DefaultBaseURL = "https://api.francecompetences.fr/siro/v1/nico/search"
	DefaultTimeout = 5 * time.Second
)

var (
	opcoKeys = []string{"opco", "opco_nom", "opconame", "opcolibelle"}
	idccKeys = []string{"idcc", "codeidcc", "idccnumero"}
)

// Resolver consulta France Compétences ("Quel est mon OPCO ?") y, si no obtiene nada,
// recurre a la tabla APE → IDCC → OPCO.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ prospection.OPCOResolver = (*Resolver)(nil)

// NewResolver construye el resolver. timeout <= 0 usa DefaultTimeout.
func NewResolver(baseURL string, timeout time.Duration, log zerolog.Logger) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Resolve implementa prospection.OPCOResolver. Un fallo de France Compétences no es un error:
// se registra y se usa la tabla. Sin coincidencias devuelve un OPCO vacío (Found() == false).
func (r *Resolver) Resolve(ctx context.Context, siret, ape string) (entity.OPCO, error) {
	out := entity.OPCO{Siret: siret}

	if siret != "" {
		name, idcc, err := r.fromFranceCompetences(ctx, siret)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			r.log.Debug().Err(err).Str("siret", siret).Msg("opco: France Compétences sin respuesta")
		}
		if name != "" || idcc != "" {
			out.Name, out.IDCC, out.Source = name, idcc, entity.OPCOSourceFranceCompetences
			return out, nil
		}
	}

	if idcc := IDCCFromAPE(ape); idcc != "" {
		out.Name, out.IDCC, out.Source = OPCOFromIDCC(idcc), idcc, entity.OPCOSourceMapping
	}
	return out, nil
}

func (r *Resolver) fromFranceCompetences(ctx context.Context, siret string) (name, idcc string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+siret, nil)
	if err != nil {
		return "", "", fmt.Errorf("opco: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("opco: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("opco: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", fmt.Errorf("opco: leer respuesta: %w", err)
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", "", fmt.Errorf("opco: deserializar respuesta: %w", err)
	}

	name = FindValue(data, opcoKeys)
	idcc = FindValue(data, idccKeys)
	if idcc != "" && name == "" {
		name = OPCOFromIDCC(idcc)
	}
	return name, idcc, nil
}

// FindValue recorre un JSON decodificado y devuelve el primer valor escalar cuya clave contiene
// alguno de los fragmentos (sin distinguir mayúsculas). Las claves de un objeto se visitan en orden alfabético.
func FindValue(data interface{}, fragments []string) string {
	switch v := data.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if matchesAny(strings.ToLower(k), fragments) {
				if s := scalar(v[k]); s != "" {
					return s
				}
			}
			if s := FindValue(v[k], fragments); s != "" {
				return s
			}
		}
	case []interface{}:
		for _, item := range v {
			if s := FindValue(item, fragments); s != "" {
				return s
			}
		}
	}
	return ""
}

func matchesAny(key string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
