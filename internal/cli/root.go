// Package cli implements the coltype command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JonMunkholm/coltype/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: COLTYPE_OUTPUT, COLTYPE_SEED.
const EnvPrefix = "COLTYPE"

// app carries state shared by subcommands.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
}

// NewRootCmd builds the command tree. Results go to out, diagnostics to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	var cfgFile string
	root := &cobra.Command{
		Use:           "coltype",
		Short:         "Infer column types of CSV and Excel files",
		Long:          `coltype classifies every column of a tabular file as Numeric (N), Date (D), Text + Numeric (TN) or Text (T).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cfgFile); err != nil {
				return err
			}
			a.log = logging.New(a.errOut, a.v.GetString("log_level"), "text")
			slog.SetDefault(a.log)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))

	root.AddCommand(newClassifyCmd(a), newFormatsCmd(a))
	return root
}

// load applies precedence flags > env > config file > defaults.
func (a *app) load(cfgFile string) error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	a.v.SetDefault("output", "table")
	a.v.SetDefault("sample_size", 10)
	a.v.SetDefault("seed", 0)
	a.v.SetDefault("log_level", "warn")

	if cfgFile == "" {
		return nil
	}
	a.v.SetConfigFile(cfgFile)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// Execute runs the tool and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
