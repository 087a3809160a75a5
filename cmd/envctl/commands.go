package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/auth0"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/drift"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/render"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the service config and environment record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := cfg.Validate(); err != nil {
				printValidation(out, err)
				return errChecksFailed
			}

			if cfg.Environment.IsTemplate() {
				fmt.Fprintln(out, "ok (template placeholder values in use)")
				return nil
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the environment record as JSON or environment.ts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Environment.Validate(); err != nil {
				printValidation(cmd.ErrOrStderr(), err)
				return errChecksFailed
			}

			data, err := render.Render(cfg.Environment, render.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatJSON), "output format: json or ts")
	return cmd
}

func newLoginURLCmd(opts *rootOptions) *cobra.Command {
	var callbackPath string

	cmd := &cobra.Command{
		Use:   "login-url",
		Short: "Print the Auth0 authorization request URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Environment.Validate(); err != nil {
				printValidation(cmd.ErrOrStderr(), err)
				return errChecksFailed
			}

			link, err := auth0.NewTenant(cfg.Environment.Auth0).AuthorizeURL(callbackPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}

	cmd.Flags().StringVar(&callbackPath, "callback-path", "", "path appended to the callback URL, e.g. /tabs/user-page")
	return cmd
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the environment with the API server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			findings := drift.Check(cfg.Environment, cfg.Backend)
			if len(findings) == 0 {
				fmt.Fprintln(out, "consistent")
				return nil
			}

			for _, f := range findings {
				fmt.Fprintf(out, "%s: %s (frontend=%q backend=%q)\n", f.Field, f.Message, f.Frontend, f.Backend)
			}
			return errChecksFailed
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file>",
		Short: "Check that a JSON environment document has exactly the expected fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			env, err := environment.Decode(data)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return errChecksFailed
			}
			if err := env.Validate(); err != nil {
				printValidation(cmd.OutOrStdout(), err)
				return errChecksFailed
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
