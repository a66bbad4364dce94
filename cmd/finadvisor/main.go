// Command finadvisor tracks income and expenses and generates financial advice.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jask/finadvisor/internal/config"
	"github.com/jask/finadvisor/internal/seed"
)

var version = "1.0.0"

type rootFlags struct {
	cfg   config.Config
	email string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "finadvisor",
		Short:         "Personal finance tracker with AI advice",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			flags.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&flags.email, "user", "u", seed.DemoEmail, "email of the user to act as")

	root.AddCommand(
		serveCmd(flags),
		migrateCmd(flags),
		seedCmd(flags),
		summaryCmd(flags),
		adviseCmd(flags),
		addCmd(flags),
		importCmd(flags),
		reportCmd(flags),
		tuiCmd(flags),
		keyCmd(flags),
		resetCmd(flags),
	)
	return root
}
