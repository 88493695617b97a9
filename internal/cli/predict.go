package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/liamcoop/attrition/features"
	"github.com/liamcoop/attrition/model"
	"github.com/liamcoop/attrition/predict"
)

var (
	churnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	stayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

type predictOutput struct {
	WillChurn    bool               `json:"willChurn"`
	Label        string             `json:"label"`
	Features     map[string]float64 `json:"features,omitempty"`
	VectorLength int                `json:"vectorLength"`
}

func predictCmd(modelPath *string) *cobra.Command {
	var file string
	var asJSON bool
	var showFeatures bool

	c := &cobra.Command{
		Use:   "predict",
		Short: "Predict churn for the employee described in a YAML or JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			attrs, err := readAttributes(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			predictor, err := model.NewLoader(*modelPath).Get()
			if err != nil {
				return err
			}
			builder, err := features.NewBuilder()
			if err != nil {
				return err
			}

			out, err := predict.NewService(builder, predictor).Submit(cmd.Context(), attrs)
			if err != nil {
				var verr *features.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprint(cmd.ErrOrStderr(), validationReport(verr))
				}
				return err
			}

			if asJSON {
				res := predictOutput{
					WillChurn:    out.Prediction.WillChurn,
					Label:        out.Label,
					VectorLength: out.VectorLength,
				}
				if showFeatures {
					res.Features = out.Record.Map()
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			printVerdict(cmd.OutOrStdout(), out.Prediction)
			if showFeatures {
				fmt.Fprintln(cmd.OutOrStdout())
				return printFeatures(cmd.OutOrStdout(), out.Record, out.VectorLength)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Attributes file (YAML or JSON, - for stdin)")
	c.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	c.Flags().BoolVar(&showFeatures, "features", false, "Include the engineered feature record")

	_ = c.MarkFlagRequired("file")
	return c
}

func printVerdict(w io.Writer, p model.Prediction) {
	style := stayStyle
	if p.WillChurn {
		style = churnStyle
	}
	fmt.Fprintf(w, "The prediction is that the employee %s.\n", style.Render(p.Label()))
}
