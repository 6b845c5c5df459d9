package main

import (
	"encoding/json"
	"errors"

	contentapp "github.com/masgolf/backend/internal/application/content"
	"github.com/masgolf/backend/internal/infrastructure/imagecodec"
	"github.com/masgolf/backend/internal/infrastructure/persistence"
	"github.com/masgolf/backend/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

func newMigrateImagesCmd() *cobra.Command {
	var (
		limit   int
		quality float32
	)
	cmd := &cobra.Command{
		Use:   "migrate-images",
		Short: "Convert stored images to resized WebP",
		Long: "Converts up to --limit non-WebP images in object storage. A converted image is\n" +
			"uploaded next to the original and its metadata row is repointed at the new object.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if !e.cfg.Storage.Enabled {
				return errors.New("object storage is disabled (storage.enabled=false)")
			}

			s3, err := storage.NewS3ObjectStorage(&e.cfg.Storage, storage.WithLogger(e.log))
			if err != nil {
				return err
			}
			svc := contentapp.NewImageService(persistence.NewGormImageRepository(e.db.DB), s3, imagecodec.New(quality), e.log)
			report, err := svc.MigrateAll(cmd.Context(), limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum images to convert")
	cmd.Flags().Float32Var(&quality, "quality", 80, "WebP quality (1-100)")
	return cmd
}
