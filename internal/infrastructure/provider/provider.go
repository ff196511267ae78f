// Package provider arma la cadena de proveedores de búsqueda a partir de la configuración.
package provider

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/infrastructure/gouv"
	"github.com/jhoicas/prospection-api/internal/infrastructure/sirene"
	"github.com/jhoicas/prospection-api/pkg/config"
)

// NewSearcher con clave INSEE → [insee, gouv]; sin clave y SEARCH_DEMO → [demo]; sin clave → [gouv].
func NewSearcher(cfg config.SireneConfig, log zerolog.Logger) *prospection.FallbackSearcher {
	if cfg.APIKey == "" && cfg.Demo {
		log.Warn().Msg("sin SIRENE_API_KEY: modo demo con datos ficticios")
		return prospection.NewFallbackSearcher(prospection.NamedSearcher{Name: "demo", Searcher: sirene.Demo{}})
	}

	var chain []prospection.NamedSearcher
	if cfg.APIKey != "" {
		chain = append(chain, prospection.NamedSearcher{
			Name: "insee",
			Searcher: sirene.NewClient(cfg.APIKey,
				sirene.WithBaseURL(cfg.BaseURL),
				sirene.WithTimeout(cfg.Timeout),
				sirene.WithLogger(log.With().Str("provider", "insee").Logger()),
			),
		})
	}
	chain = append(chain, prospection.NamedSearcher{
		Name:     "gouv",
		Searcher: gouv.NewClient(cfg.GouvBaseURL, cfg.GouvMaxPages, cfg.Timeout, log.With().Str("provider", "gouv").Logger()),
	})
	return prospection.NewFallbackSearcher(chain...)
}
