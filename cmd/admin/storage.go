package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/pianostudio-backend/internal/app"
	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

func newSetupBucketCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "setup-bucket",
		Short: "Create the content bucket if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bucket, err := app.OpenBucket(e.log, e.cfg)
			if err != nil {
				return err
			}
			defer bucket.Close()

			created, err := bucket.EnsureBucket(cmd.Context())
			if err != nil {
				return fmt.Errorf("ensure bucket: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created bucket %s\n", bucket.BucketName())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "bucket %s already exists\n", bucket.BucketName())
			}
			return nil
		},
	}
}

func newReconcileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one sweep over abandoned upload slots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pg, err := app.OpenDatabase(e.log, e.cfg)
			if err != nil {
				return err
			}
			defer pg.Close()
			bucket, err := app.OpenBucket(e.log, e.cfg)
			if err != nil {
				return err
			}
			defer bucket.Close()

			rs := repos.New(pg.DB(), e.log)
			svc := services.NewReconcileService(e.log, rs.UploadSlots, rs.Items, bucket, nil, e.cfg.UploadOrphanGrace)
			res, err := svc.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d expired=%d adopted=%d failed=%d\n", res.Scanned, res.Expired, res.Adopted, res.Failed)
			return nil
		},
	}
}
