package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/target/campus-portal/internal/adapters/staticauth"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"golang.org/x/crypto/bcrypt"
)

type hashOptions struct {
	Cost       int
	Role       string
	Identifier string
	Name       string
}

func (a *app) hashPasswordCmd() *cobra.Command {
	var opts hashOptions
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin for AUTH_STATIC_USERS",
		Long: `Reads one line from stdin and prints its bcrypt hash.

With --role and --id the output is a complete AUTH_STATIC_USERS entry:
  role:identifier:hash[:display name]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHashPassword(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	cmd.Flags().StringVar(&opts.Role, "role", "", "role for a full entry (student, staff, tpo)")
	cmd.Flags().StringVar(&opts.Identifier, "id", "", "identifier for a full entry")
	cmd.Flags().StringVar(&opts.Name, "name", "", "optional display name for a full entry")
	return cmd
}

func runHashPassword(cmd *cobra.Command, opts hashOptions) error {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if (opts.Role == "") != (opts.Identifier == "") {
		return errors.New("--role and --id must be given together")
	}
	if strings.ContainsAny(opts.Identifier+opts.Name, ":;") {
		return errors.New("identifier and name may not contain ':' or ';'")
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	hash, err := staticauth.HashPassword(password, opts.Cost)
	if err != nil {
		return err
	}
	if opts.Role == "" {
		return writef(cmd.OutOrStdout(), "%s\n", hash)
	}

	role, err := domainauth.ParseRole(opts.Role)
	if err != nil {
		return err
	}
	entry := string(role) + ":" + opts.Identifier + ":" + hash
	if opts.Name != "" {
		entry += ":" + opts.Name
	}
	return writef(cmd.OutOrStdout(), "%s\n", entry)
}
