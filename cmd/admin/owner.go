package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/pianostudio-backend/internal/app"
	"github.com/yungbote/pianostudio-backend/internal/data/repos"
	"github.com/yungbote/pianostudio-backend/internal/services"
)

func newGrantOwnerCmd(e *env) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "grant-owner",
		Short: "Give the profile with this email owner rights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pg, err := app.OpenDatabase(e.log, e.cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			// granting never exchanges a token, so no identity provider is needed
			owners := services.NewOwnerService(e.log, nil, repos.NewProfileRepo(pg.DB(), e.log), e.cfg.OwnerEmail)
			n, err := owners.GrantOwner(cmd.Context(), email)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no profile found for %s; sign in once and rerun\n", email)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted owner to %d profile(s) for %s\n", n, email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the profile to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newProfilesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List known profiles and their roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pg, err := app.OpenDatabase(e.log, e.cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			rows, err := repos.NewProfileRepo(pg.DB(), e.log).List(cmd.Context(), nil)
			if err != nil {
				return fmt.Errorf("list profiles: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tCREATED")
			for _, p := range rows {
				role := p.Role
				if role == "" {
					role = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Email, p.FullName, role, p.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}
