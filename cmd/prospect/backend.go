package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/infrastructure/opco"
	"github.com/jhoicas/prospection-api/internal/infrastructure/pdf"
	"github.com/jhoicas/prospection-api/internal/infrastructure/provider"
	"github.com/jhoicas/prospection-api/internal/infrastructure/xlsx"
	"github.com/jhoicas/prospection-api/pkg/client"
)

// backend lo que la CLI necesita de prospection-api; client.Client lo cumple tal cual.
type backend interface {
	Search(ctx context.Context, secteur, departement string) ([]entity.Entreprise, error)
	Export(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error)
	ExportPDF(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error)
	OPCO(ctx context.Context, siret, ape string) (*dto.OPCOResponse, error)
}

var _ backend = (*client.Client)(nil)

// localBackend casos de uso en proceso, sin almacenamiento de anotaciones.
type localBackend struct {
	search *prospection.SearchUseCase
	export *prospection.ExportUseCase
	opco   *prospection.OPCOUseCase
}

func (b *localBackend) Search(ctx context.Context, secteur, departement string) ([]entity.Entreprise, error) {
	resp, err := b.search.Search(ctx, dto.SearchRequest{Secteur: secteur, Departement: departement})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (b *localBackend) Export(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error) {
	return b.export.ExportXLSX(ctx, dto.ExportRequest{Results: records})
}

func (b *localBackend) ExportPDF(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error) {
	return b.export.ExportPDF(ctx, dto.ExportRequest{Results: records})
}

func (b *localBackend) OPCO(ctx context.Context, siret, ape string) (*dto.OPCOResponse, error) {
	return b.opco.Resolve(ctx, siret, ape)
}

func newBackend(cmd *cobra.Command, limit int) (backend, error) {
	apiURL, _ := cmd.Flags().GetString("api")
	if apiURL != "" {
		token, _ := cmd.Flags().GetString("token")
		conseiller, _ := cmd.Flags().GetString("conseiller")
		return client.New(apiURL, client.WithToken(token), client.WithConseiller(conseiller)), nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cmd)
	if limit <= 0 {
		limit = cfg.Search.Limit
	}
	loc := cfg.UI.Location()
	return &localBackend{
		search: prospection.NewSearchUseCase(provider.NewSearcher(cfg.Sirene, log.Component("search")), nil).WithLimit(limit),
		export: prospection.NewExportUseCase(xlsx.NewGenerator(), pdf.NewCallSheetGenerator(loc)),
		opco:   prospection.NewOPCOUseCase(opco.NewResolver(cfg.Sirene.OPCOBaseURL, cfg.Sirene.Timeout, log.Component("opco"))),
	}, nil
}
