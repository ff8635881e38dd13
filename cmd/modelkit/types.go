package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/core/model"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List model types",
	Args:  cobra.NoArgs,
	RunE:  runTypesList,
}

var typesShowCmd = &cobra.Command{
	Use:   "show <type>",
	Short: "Show the fields of a model type",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypesShow,
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.AddCommand(typesShowCmd)
}

func runTypesList(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	types := app.Registry().List()
	if len(types) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No types defined.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXTENDS\tFIELDS\tSTRICT\tSTRICT CONSTRUCTOR")
	for _, t := range types {
		parent := "-"
		if t.Parent() != nil {
			parent = t.Parent().Name()
		}
		opts := t.Options()
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			t.Name(), parent, len(t.Fields()), yesNo(opts.IsStrict()), yesNo(opts.IsStrictConstructor()))
	}
	return w.Flush()
}

func runTypesShow(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	t, err := app.Type(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", t.Name())
	if chain := ancestry(t); len(chain) > 0 {
		fmt.Fprintf(out, "  extends: %s\n", strings.Join(chain, " -> "))
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tKIND\tREQUIRED\tDEFAULT\tMISSING")
	for _, name := range t.Fields() {
		f, err := t.Field(name)
		if err != nil {
			return err
		}
		kind := string(f.Kind())
		if nt, ok := t.NestedType(name); ok {
			kind = fmt.Sprintf("%s(%s)", kind, nt.Name())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name, kind, yesNo(f.IsRequired()), showValue(f.DefaultValue()), showValue(f.MissingValue()))
	}
	return w.Flush()
}

func ancestry(t *model.Type) []string {
	var chain []string
	for p := t.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p.Name())
	}
	return chain
}

func showValue(v any) string {
	if field.IsMissing(v) {
		return "-"
	}
	return fmt.Sprintf("%v", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
