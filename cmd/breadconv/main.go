package main

import (
	"fmt"
	"os"

	"bread-converter/internal/app"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/spf13/cobra"
)

// cli 子命令共用的狀態
type cli struct {
	logLevel    string
	strictUnits bool
	cfg         *config.Config
	app         *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "breadconv",
		Short:         "Convert bread recipes between sourdough starter and commercial yeast",
		Long:          "Parses free-form bread recipes, checks them, and rewrites them for sourdough starter or instant yeast with adjusted quantities, method and troubleshooting notes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if c.strictUnits {
				cfg.Conversion.StrictUnits = true
			}
			c.cfg = cfg

			if err := common.InitStderrLogger(c.logLevel); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("init services: %w", err)
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			common.Sync()
			if c.app != nil {
				return c.app.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.strictUnits, "strict-units", false, "drop lines with unknown units instead of reading them as grams")

	root.AddCommand(newConvertCmd(c), newParseCmd(c))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
