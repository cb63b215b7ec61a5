package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/pianostudio-backend/internal/app"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// env is loaded once by the root command and shared by every subcommand.
type env struct {
	log *logger.Logger
	cfg app.Config
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "studio-admin",
		Short:         "Operational commands for the piano studio backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(log)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			e.log, e.cfg = log, cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				e.log.Sync()
			}
		},
	}
	root.AddCommand(
		newGrantOwnerCmd(e),
		newProfilesCmd(e),
		newSetupBucketCmd(e),
		newReconcileCmd(e),
		newUploadCmd(e),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
