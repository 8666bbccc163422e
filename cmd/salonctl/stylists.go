package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

func (a *app) stylistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stylists",
		Aliases: []string{"stylist"},
		Short:   "Manage the stylist roster",
	}

	var (
		id, bio, avatar string
		specialties     []string
		inactive        bool
	)
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a stylist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("name must not be blank")
			}
			st, done, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			s := &model.Stylist{
				ID:          id,
				Name:        name,
				Bio:         bio,
				Specialties: specialties,
				AvatarURL:   avatar,
				Available:   !inactive,
			}
			if err := st.AddStylist(cmd.Context(), s); err != nil {
				return fmt.Errorf("add stylist: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "profile id to link (a fresh id when empty)")
	add.Flags().StringVar(&bio, "bio", "", "short biography")
	add.Flags().StringVar(&avatar, "avatar-url", "", "avatar image URL")
	add.Flags().StringSliceVar(&specialties, "specialty", nil, "specialty, repeatable")
	add.Flags().BoolVar(&inactive, "inactive", false, "add without taking bookings")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stylists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, done, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			stylists, err := st.ListStylists(cmd.Context(), "")
			if err != nil {
				return err
			}
			writeStylists(cmd, stylists)
			return nil
		},
	}

	cmd.AddCommand(add, list, a.setActiveCmd("activate", true), a.setActiveCmd("deactivate", false))
	return cmd
}

func (a *app) setActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a stylist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := st.SetStylistActive(cmd.Context(), args[0], active); err != nil {
				if errors.Is(err, booking.ErrNotFound) {
					return fmt.Errorf("no stylist with id %s", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", use, args[0])
			return nil
		},
	}
}

func writeStylists(cmd *cobra.Command, list []model.Stylist) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tSPECIALTIES")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.ID, s.Name, s.Available, strings.Join(s.Specialties, ", "))
	}
	w.Flush()
}
