package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ehsaniara/makelab/internal/makelab/compiler"
)

// outputFormat is a --format flag restricted to the supported encodings.
type outputFormat string

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(v string) error {
	switch v {
	case "yaml", "yml":
		*f = "yaml"
	case "json":
		*f = "json"
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", v)
	}
	return nil
}

func (f *outputFormat) Type() string { return "format" }

func newShowCmd(s *session) *cobra.Command {
	format := outputFormat("yaml")

	cmd := &cobra.Command{
		Use:   "show [topology.yaml]",
		Short: "Print the realized networks and hosts",
		Long: `Compile a topology and print the realized configuration: every network
with its resolved gateway and allocated addresses, and every host with its
devices, addresses and routes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lab, _, err := s.compile(cmd.Context(), args)
			if err != nil {
				return err
			}
			return writeLab(cmd.OutOrStdout(), lab, format)
		},
	}

	cmd.Flags().Var(&format, "format", "Output format: yaml or json")

	return cmd
}

func writeLab(w io.Writer, lab *compiler.Lab, format outputFormat) error {
	if format == "json" {
		data, err := json.MarshalIndent(lab, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(lab); err != nil {
		return err
	}
	return enc.Close()
}
