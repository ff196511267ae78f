package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Recherche les établissements actifs d'un secteur dans un département",
	Long: `search lance une recherche (code NAF comme 47.11C ou mot-clé comme boulangerie)
et affiche un tableau avec le téléphone, le dirigeant et le lien Pappers.

--opco résout l'OPCO de chaque établissement (France Compétences puis table APE),
--xlsx et --pdf écrivent l'export Excel ou la fiche d'appels.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("secteur", "s", "", "code NAF ou mot-clé (obligatoire)")
	searchCmd.Flags().StringP("departement", "d", "", "département, ex. 75 ou 2A (obligatoire)")
	searchCmd.Flags().Int("limit", 0, "nombre maximum de résultats (0 = SEARCH_LIMIT)")
	searchCmd.Flags().Bool("opco", false, "résoudre l'OPCO de chaque établissement")
	searchCmd.Flags().Int("concurrency", 4, "requêtes OPCO simultanées")
	searchCmd.Flags().Bool("json", false, "sortie JSON")
	searchCmd.Flags().String("xlsx", "", "écrire l'export Excel dans ce fichier")
	searchCmd.Flags().String("pdf", "", "écrire la fiche d'appels PDF dans ce fichier")

	rootCmd.AddCommand(searchCmd)
}

type searchResult struct {
	dto.SearchResponse
	OPCO map[string]string `json:"opco,omitempty"`
}

func runSearch(cmd *cobra.Command, _ []string) error {
	secteur, _ := cmd.Flags().GetString("secteur")
	departement, _ := cmd.Flags().GetString("departement")
	limit, _ := cmd.Flags().GetInt("limit")
	withOPCO, _ := cmd.Flags().GetBool("opco")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	asJSON, _ := cmd.Flags().GetBool("json")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	b, err := newBackend(cmd, limit)
	if err != nil {
		return err
	}

	results, err := b.Search(ctx, secteur, departement)
	if err != nil {
		return userError(err)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	var opcos map[string]string
	if withOPCO {
		opcos, err = resolveOPCOs(ctx, b, results, concurrency)
		if err != nil {
			return err
		}
	}

	if err := writeExports(ctx, b, results, xlsxPath, pdfPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(searchResult{
			SearchResponse: dto.SearchResponse{Success: true, Count: len(results), Results: results},
			OPCO:           opcos,
		})
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "Aucune entreprise trouvée pour ces critères.")
		return nil
	}
	fmt.Fprintf(out, "%d entreprise(s) trouvée(s).\n\n", len(results))
	fmt.Fprint(out, renderTable(results, opcos, terminalWidth()))
	return nil
}

// userError sustituye los errores de dominio por el mensaje que vería la interfaz.
func userError(err error) error {
	if msg := prospection.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}

func writeExports(ctx context.Context, b backend, results []entity.Entreprise, xlsxPath, pdfPath string) error {
	if xlsxPath != "" {
		f, err := b.Export(ctx, results)
		if err != nil {
			return fmt.Errorf("export excel: %w", userError(err))
		}
		if err := os.WriteFile(xlsxPath, f.Body, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Excel écrit : %s\n", xlsxPath)
	}
	if pdfPath != "" {
		f, err := b.ExportPDF(ctx, results)
		if err != nil {
			return fmt.Errorf("fiche d'appels: %w", userError(err))
		}
		if err := os.WriteFile(pdfPath, f.Body, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "PDF écrit : %s\n", pdfPath)
	}
	return nil
}
