package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/config"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/validation"
	"github.com/spf13/cobra"
)

// errChecksFailed signals a non-zero exit after the command already printed
// its findings.
var errChecksFailed = errors.New("checks failed")

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "envctl",
		Short: "Inspect the coffee-shop front-end environment",
		Long: `envctl loads the environment record from config.yml and the environment
variables, validates it, renders it for the front-end and checks it against
the API server settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.GetConfigPath("config.yml"),
		"path to the config file (empty to use only defaults and environment variables)")

	cmd.AddCommand(
		newValidateCmd(opts),
		newShowCmd(opts),
		newLoginURLCmd(opts),
		newCheckCmd(opts),
		newSchemaCmd(),
	)

	return cmd
}

// load reads the config. A missing default config.yml is not an error.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	if !cmd.Flags().Changed("config") && os.Getenv("CONFIG_PATH") == "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// printValidation writes one line per failing field.
func printValidation(w io.Writer, err error) {
	fields := validation.Fields(err)
	if len(fields) == 0 {
		fmt.Fprintf(w, "invalid: %v\n", err)
		return
	}
	for _, fe := range fields {
		fmt.Fprintf(w, "invalid %s: %s\n", fe.Field, fe.Message)
	}
}
