package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/artpar/modelkit/core/formatter"
	"github.com/artpar/modelkit/core/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var checkCmd = &cobra.Command{
	Use:   "check <type> [file]",
	Short: "Construct, validate and print records",
	Long: `Construct records of a model type, validate them and print the
dumped result or the field errors.

The input is a JSON or YAML mapping, or a sequence of mappings. It is read
from file, or from stdin when file is omitted or "-".

Examples:
  modelkit check person person.yaml
  echo '{"name": "Tester", "age": "100"}' | modelkit check person -o table`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

// errInvalid is returned when at least one record fails.
var errInvalid = errors.New("invalid records")

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	t, err := app.Type(args[0])
	if err != nil {
		return err
	}

	path := "-"
	if len(args) == 2 {
		path = args[1]
	}
	records, err := readRecords(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	f, err := formatter.Lookup(app.Config.Output.Format)
	if err != nil {
		return err
	}
	opts := formatter.FormatOptions{
		Columns: t.Fields(),
		Model:   t.Name(),
		Compact: app.Config.Output.Compact,
	}

	failed := 0
	for _, raw := range records {
		ok, err := checkRecord(cmd.OutOrStdout(), f, opts, t, raw)
		if err != nil {
			return err
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d %s record(s) failed", errInvalid, failed, len(records), t.Name())
	}
	return nil
}

// checkRecord writes the dumped record, or its errors, to w. It reports
// whether the record is valid; the error is reserved for output failures.
func checkRecord(w io.Writer, f formatter.Formatter, opts formatter.FormatOptions, t *model.Type, raw any) (bool, error) {
	inst, err := t.New(raw, nil)
	if err != nil {
		return false, f.FormatError(w, err)
	}

	errs, err := inst.Validate()
	if err != nil && len(errs) == 0 {
		return false, f.FormatError(w, err)
	}
	if len(errs) > 0 {
		return false, f.FormatErrors(w, errs, opts)
	}

	record, _, err := inst.Dump()
	if err != nil {
		return false, f.FormatError(w, err)
	}
	return true, f.FormatRecord(w, record, opts)
}

// readRecords decodes a mapping or a sequence of mappings. YAML is a
// superset of JSON, so both are accepted.
func readRecords(stdin io.Reader, path string) ([]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	switch v := doc.(type) {
	case nil:
		return nil, fmt.Errorf("input %s is empty", path)
	case []any:
		return v, nil
	default:
		return []any{v}, nil
	}
}
