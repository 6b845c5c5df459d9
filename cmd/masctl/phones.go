package main

import (
	"encoding/json"

	customerapp "github.com/masgolf/backend/internal/application/customer"
	"github.com/masgolf/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newNormalizePhonesCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "normalize-phones",
		Short: "Rewrite customer phones into the 010XXXXXXXX form",
		Long: "Normalizes every stored customer phone. Numbers that are not 010 mobiles, or that\n" +
			"would collide with another customer after normalization, are listed and left as they are.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			svc := customerapp.NewService(persistence.NewGormCustomerRepository(e.db.DB), e.log)
			report, err := svc.NormalizePhones(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without saving")
	return cmd
}
