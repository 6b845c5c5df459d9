package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	messagingapp "github.com/masgolf/backend/internal/application/messaging"
	"github.com/masgolf/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newExportCampaignCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-campaign <campaign-id>",
		Short: "Write a campaign's recipients as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid campaign id %q", args[0])
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			svc := messagingapp.NewService(
				persistence.NewGormChannelSMSRepository(e.db.DB),
				persistence.NewGormMessageLogRepository(e.db.DB),
				persistence.NewGormCustomerRepository(e.db.DB),
				e.log,
			)
			return svc.ExportRecipients(cmd.Context(), id, w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
