package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/prospection-api/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Génère un jeton JWT pour un conseiller (JWT_SECRET requis)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		conseiller, _ := cmd.Flags().GetString("conseiller")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET vide : l'API n'exige pas de jeton")
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, conseiller, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
