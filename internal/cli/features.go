package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/liamcoop/attrition/features"
)

func featuresCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "features",
		Short: "Print the engineered feature record for an employee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			attrs, err := readAttributes(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if err := features.Validate(attrs); err != nil {
				var verr *features.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprint(cmd.ErrOrStderr(), validationReport(verr))
				}
				return err
			}

			builder, err := features.NewBuilder()
			if err != nil {
				return err
			}
			rec, err := builder.Build(attrs)
			if err != nil {
				return err
			}

			return printFeatures(cmd.OutOrStdout(), rec, features.ExpandedLen(len(rec.Values)))
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Attributes file (YAML or JSON, - for stdin)")
	_ = c.MarkFlagRequired("file")
	return c
}

func printFeatures(w io.Writer, rec *features.Record, vectorLength int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FEATURE\tVALUE")
	for i, name := range rec.Names {
		fmt.Fprintf(tw, "%s\t%s\n", name, strconv.FormatFloat(rec.Values[i], 'g', -1, 64))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d named features, %d after degree-2 expansion\n", len(rec.Names), vectorLength)
	return err
}
