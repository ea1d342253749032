package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ehsaniara/makelab/internal/makelab/compiler"
	"github.com/ehsaniara/makelab/internal/makelab/render"
	"github.com/ehsaniara/makelab/internal/makelab/topology"
	"github.com/ehsaniara/makelab/pkg/config"
	"github.com/ehsaniara/makelab/pkg/errors"
	"github.com/ehsaniara/makelab/pkg/logger"
)

// DefaultTopologyFile is read when no topology argument is given.
const DefaultTopologyFile = "topology.yaml"

// session carries the global flags and the state set up before every
// subcommand runs.
type session struct {
	configPath string
	logLevel   string
	logFormat  string
	outputDir  string

	cfg   *config.Config
	log   *logger.Logger
	runID string
}

// NewRootCmd builds the makelab command tree. Running the root command
// without a subcommand is the same as "makelab build".
func NewRootCmd() *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:   "makelab [topology.yaml]",
		Short: "Compile a virtual network lab topology into lab files",
		Long: `makelab reads a declarative topology (networks, hosts and the interfaces
that connect them), allocates addresses and gateways, and writes a lab
directory: lab.conf, one startup script per host, a shared hosts file
and a Graphviz diagram.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.setup,
		RunE:              s.runBuild,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&s.configPath, "config", "",
		"Path to configuration file (searches common locations if not specified)")
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "",
		"Log level: DEBUG, INFO, WARN or ERROR")
	cmd.PersistentFlags().StringVar(&s.logFormat, "log-format", "",
		"Log format: text or json")
	addOutputFlag(cmd, s)

	cmd.AddCommand(newBuildCmd(s))
	cmd.AddCommand(newValidateCmd(s))
	cmd.AddCommand(newShowCmd(s))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the command line and returns the first error, already logged
// at debug level with its classification.
func Execute() error {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil {
		logger.Debug("command failed", logFields(errors.FormatErrorForLogging(err))...)
	}
	return err
}

func addOutputFlag(cmd *cobra.Command, s *session) {
	cmd.Flags().StringVarP(&s.outputDir, "output-directory", "o", "",
		"Directory the lab is written to (overrides output.directory)")
}

func (s *session) setup(cmd *cobra.Command, _ []string) error {
	// version must work without a valid configuration
	if cmd.Name() == "version" {
		return nil
	}

	cfg, source, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	if s.logLevel != "" {
		cfg.Logging.Level = s.logLevel
	}
	if s.logFormat != "" {
		cfg.Logging.Format = s.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return errors.NewConfigError("logging", "level", err)
	}
	logger.Configure(logger.Config{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Format: cfg.Logging.Format,
		Mode:   cmd.Name(),
	})

	s.cfg = cfg
	s.runID = uuid.NewString()
	s.log = logger.WithFields("component", "cli", "run", s.runID)
	s.log.Debug("configuration loaded", "source", source)
	return nil
}

// compile loads and compiles the topology named by args.
func (s *session) compile(ctx context.Context, args []string) (*compiler.Lab, string, error) {
	path := DefaultTopologyFile
	if len(args) > 0 {
		path = args[0]
	}

	topo, err := topology.Load(path)
	if errors.IsFilesystemError(err) {
		return nil, path, errors.NewUserError(err, fmt.Sprintf("Could not read topology file %s.", path))
	}
	if err != nil {
		return nil, path, err
	}
	s.log.Debug("topology loaded", "file", path, "networks", len(topo.Networks), "hosts", len(topo.Hosts))

	c := compiler.New(
		compiler.WithDevicePrefix(s.cfg.Compiler.DevicePrefix),
		compiler.WithLogger(s.log),
	)
	lab, err := c.Compile(ctx, topo)
	if err != nil {
		return nil, path, err
	}
	return lab, path, nil
}

func (s *session) renderOptions() render.Options {
	out := s.cfg.Output
	return render.Options{
		LabFile:       out.LabFile,
		HostsFile:     out.HostsFile,
		DiagramFile:   out.DiagramFile,
		StartupSuffix: out.StartupSuffix,
		Diagram:       out.Diagram,
	}
}

func logFields(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}
