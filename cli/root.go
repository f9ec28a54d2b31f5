// Package cli wires the cobra commands of the cvdrisk binary: the HTTP
// service and offline commands over the same risk and therapy core.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giygas/cvdrisk-api/catalog"
	"github.com/giygas/cvdrisk-api/config"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/therapy"
	"github.com/giygas/cvdrisk-api/validation"
)

// globalOptions are the persistent flags shared by the offline commands.
type globalOptions struct {
	jsonOutput  bool
	verbose     bool
	catalogPath string
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "cvdrisk",
		Short:        "Cardiovascular risk estimation and lipid therapy adjustment",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context())
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log catalog loading to the console")
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "therapy catalog TSV (embedded catalog when empty)")

	cmd.AddCommand(
		serveCmd(),
		estimateCmd(opts),
		adjustLDLCmd(opts),
		fiveYearCmd(opts),
		therapiesCmd(opts),
	)
	return cmd
}

// initOfflineLogging keeps the console quiet so output stays parseable
func (o *globalOptions) initOfflineLogging() {
	level := "error"
	if o.verbose {
		level = "info"
	}
	logging.InitLoggerWithOptions(logging.Options{Env: config.EnvProduction, Level: level})
}

func (o *globalOptions) loadCatalog() (*therapy.Catalog, error) {
	c, err := catalog.NewFileParser(o.catalogPath).ParseCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load therapy catalog: %w", err)
	}
	return c, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fieldListError prints field errors one per line and unwraps to the
// original validation error.
type fieldListError struct {
	msg string
	err error
}

func (e *fieldListError) Error() string { return e.msg }
func (e *fieldListError) Unwrap() error { return e.err }

func describeError(err error) error {
	fields := validation.Fields(err)
	if len(fields) < 2 {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d invalid inputs:", len(fields))
	for _, f := range fields {
		b.WriteString("\n  " + f.Error())
	}
	return &fieldListError{msg: b.String(), err: err}
}
