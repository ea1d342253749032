package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [topology.yaml]",
		Short: "Check that a topology compiles without writing anything",
		Long: `Decode, validate and compile a topology without writing any file.

Exits with status 2 when the topology is invalid (unknown network, address
outside its block, address conflict or exhausted address space).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lab, path, err := s.compile(cmd.Context(), args)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d networks, %d hosts)\n", path, len(lab.Networks), len(lab.Hosts))
			return nil
		},
	}
}
