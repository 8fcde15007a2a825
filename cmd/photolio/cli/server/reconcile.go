package server

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwantia/photolio/pkg/asset"
	"github.com/mwantia/photolio/pkg/blob"
	"github.com/mwantia/photolio/pkg/log"
)

func NewReconcileCommand() *cobra.Command {
	var opts asset.ReconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored images with photo metadata",
		Long: `Compare the image directory with the photo rows of the metadata store.

Images without a photo row are removed. Photo rows without an image are
reported and, with --prune-rows, deleted. The report is printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}

			blobs, err := blob.NewLocalStore(cfg.Storage.Path)
			if err != nil {
				return err
			}

			logger := log.NewLoggerService("photolio/reconcile", cfg.Log)
			report, err := asset.NewManager(st, blobs, logger).Reconcile(cmd.Context(), opts)
			if report != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(report); encErr != nil {
					return fmt.Errorf("failed to encode report: %w", encErr)
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "only report, do not remove anything")
	cmd.Flags().BoolVar(&opts.PruneRows, "prune-rows", false, "delete photo rows whose image is missing")

	return cmd
}
