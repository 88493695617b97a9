package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/liamcoop/attrition/features"
)

func exampleCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "example",
		Short: "Print the canned example employee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch format {
			case "yaml", "":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(features.Example()); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(features.Example())
			default:
				return fmt.Errorf("unsupported format %q (expected yaml|json)", format)
			}
		},
	}

	c.Flags().StringVar(&format, "format", "yaml", "Output format: yaml|json")
	return c
}
