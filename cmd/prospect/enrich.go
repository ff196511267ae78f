package main

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/pkg/client"
)

// resolveOPCOs consulta el OPCO de cada establecimiento con a lo sumo concurrency peticiones en vuelo.
// "No encontrado" deja el SIRET fuera del mapa; cualquier otro error cancela el resto.
func resolveOPCOs(ctx context.Context, b backend, results []entity.Entreprise, concurrency int) (map[string]string, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(results))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, r := range results {
		g.Go(func() error {
			res, err := b.OPCO(ctx, r.Siret, r.Secteur)
			if isNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			out[r.Siret] = res.OPCO
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 404
	}
	return errors.Is(err, domain.ErrNotFound)
}
