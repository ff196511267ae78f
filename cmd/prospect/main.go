// Package main CLI de prospección: busca establecimientos, muestra una tabla en el terminal
// y exporta a Excel o PDF, en proceso o contra una API desplegada (--api).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/prospection-api/pkg/config"
	"github.com/jhoicas/prospection-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Recherche d'entreprises par secteur et département",
	Long: `prospect interroge l'API Sirene de l'INSEE (ou recherche-entreprises.api.gouv.fr
sans clé) et affiche les établissements actifs avec leurs liens Pappers.

Sans --api la recherche tourne dans le processus avec la configuration de
l'environnement (SIRENE_API_KEY, SEARCH_DEMO...). Avec --api elle passe par
une instance de prospection-api.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("api", os.Getenv("PROSPECTION_API_URL"), "URL de prospection-api (vide = en proceso)")
	rootCmd.PersistentFlags().String("token", os.Getenv("PROSPECTION_API_TOKEN"), "token JWT para --api")
	rootCmd.PersistentFlags().String("conseiller", "", "autor enviado en X-Conseiller")
	rootCmd.PersistentFlags().Bool("verbose", false, "logs de depuración en stderr")
}

func newLogger(cmd *cobra.Command) *logger.Logger {
	level := "warn"
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = "debug"
	}
	return logger.New(logger.Config{Env: "development", Level: level, Out: os.Stderr})
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuración: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
