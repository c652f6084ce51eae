package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/target/campus-portal/internal/ports"
)

func (a *app) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or revoke stored sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored sessions",
			Args:  cobra.NoArgs,
			RunE:  a.withSessions(runSessionList),
		},
		&cobra.Command{
			Use:   "show <session-id>",
			Short: "Print a stored session as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withSessions(runSessionShow),
		},
		&cobra.Command{
			Use:   "revoke <session-id>",
			Short: "Delete a stored session, signing its user out",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withSessions(runSessionRevoke),
		},
	)
	return cmd
}

type sessionRunFn func(cmd *cobra.Command, store sessionAdmin, args []string) error

func (a *app) withSessions(fn sessionRunFn) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := a.loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		store, closeFn, err := a.openSessions(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()
		return fn(cmd, store, args)
	}
}

func runSessionList(cmd *cobra.Command, store sessionAdmin, _ []string) error {
	ctx := cmd.Context()
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tUSER\tROLE\tEXPIRES\n"); err != nil {
		return err
	}
	for _, id := range ids {
		sess, err := store.Get(ctx, id)
		if errors.Is(err, ports.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("get session %s: %w", id, err)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\n",
			sess.ID, sess.UserID, sess.Role, sess.ExpiresAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runSessionShow(cmd *cobra.Command, store sessionAdmin, args []string) error {
	sess, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, ports.ErrSessionNotFound) {
		return fmt.Errorf("session %s not found", args[0])
	}
	if err != nil {
		return err
	}
	out := struct {
		Session any  `json:"session"`
		Active  bool `json:"active"`
	}{Session: sess, Active: sess.Active(time.Now())}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runSessionRevoke(cmd *cobra.Command, store sessionAdmin, args []string) error {
	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	return writef(cmd.OutOrStdout(), "revoked %s\n", args[0])
}
