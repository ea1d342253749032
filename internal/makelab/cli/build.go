package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehsaniara/makelab/internal/makelab/render"
)

func newBuildCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [topology.yaml]",
		Short: "Compile a topology and write the lab directory",
		Long: `Compile a topology and write the lab directory.

The topology defaults to ./topology.yaml and the lab is written to the
configured output directory (default: the current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: s.runBuild,
	}
	addOutputFlag(cmd, s)

	return cmd
}

func (s *session) runBuild(cmd *cobra.Command, args []string) error {
	lab, path, err := s.compile(cmd.Context(), args)
	if err != nil {
		return err
	}

	dir := s.cfg.Output.Directory
	if s.outputDir != "" {
		dir = s.outputDir
	}

	r, err := render.New(s.renderOptions())
	if err != nil {
		return err
	}
	if err := r.Render(lab, render.NewDirWriter(dir)); err != nil {
		return err
	}

	s.log.Info("lab written", "topology", path, "directory", dir, "hosts", len(lab.Hosts))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Lab written to %s (%d networks, %d hosts)\n", dir, len(lab.Networks), len(lab.Hosts))
	return nil
}
