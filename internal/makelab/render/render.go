// Package render turns a compiled lab into the text artifacts consumed by
// the lab runtime: the lab descriptor, one startup script per host, a shared
// hosts file and a Graphviz diagram of the topology.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/ehsaniara/makelab/internal/makelab/compiler"
	"github.com/ehsaniara/makelab/pkg/errors"
	"github.com/ehsaniara/makelab/pkg/logger"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	labTemplate     = "lab.conf.tmpl"
	startupTemplate = "startup.tmpl"
	hostsTemplate   = "hosts.tmpl"
	diagramTemplate = "topology.dot.tmpl"
)

// Writer receives rendered files. Names are slash separated and relative to
// the lab directory.
//
//counterfeiter:generate . Writer
type Writer interface {
	WriteFile(name string, data []byte) error
}

// Options controls file naming and which artifacts are produced.
type Options struct {
	LabFile       string
	HostsFile     string
	DiagramFile   string
	StartupSuffix string
	Diagram       bool
}

// DefaultOptions returns the layout expected by Kathara-style lab runtimes.
func DefaultOptions() Options {
	return Options{
		LabFile:       "lab.conf",
		HostsFile:     "shared/hosts",
		DiagramFile:   "topology.dot",
		StartupSuffix: ".startup",
		Diagram:       true,
	}
}

// Renderer renders compiled labs with the embedded templates.
type Renderer struct {
	templates *template.Template
	opts      Options
	logger    *logger.Logger
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	tmpl, err := template.New("makelab").
		Funcs(template.FuncMap{"quote": strconv.Quote}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: parse templates: %v", errors.ErrTemplateExecution, err)
	}

	return &Renderer{
		templates: tmpl,
		opts:      opts,
		logger:    logger.WithField("component", "renderer"),
	}, nil
}

// Render renders every artifact of lab into memory and then hands them to w
// in a fixed order: lab descriptor, startup scripts in host order, hosts
// file, diagram. Nothing is written if any template fails.
func (r *Renderer) Render(lab *compiler.Lab, w Writer) error {
	type file struct {
		name string
		data []byte
	}
	files := make([]file, 0, len(lab.Hosts)+3)

	data, err := r.RenderLabConf(lab)
	if err != nil {
		return err
	}
	files = append(files, file{r.opts.LabFile, data})

	for i := range lab.Hosts {
		host := &lab.Hosts[i]
		data, err := r.RenderStartup(host)
		if err != nil {
			return err
		}
		files = append(files, file{host.Name + r.opts.StartupSuffix, data})
	}

	if data, err = r.RenderHosts(lab); err != nil {
		return err
	}
	files = append(files, file{r.opts.HostsFile, data})

	if r.opts.Diagram {
		if data, err = r.RenderDiagram(lab); err != nil {
			return err
		}
		files = append(files, file{r.opts.DiagramFile, data})
	}

	for _, f := range files {
		if err := w.WriteFile(f.name, f.data); err != nil {
			return err
		}
		r.logger.Debug("wrote lab file", "file", f.name, "bytes", len(f.data))
	}
	return nil
}

// RenderLabConf renders the lab descriptor.
func (r *Renderer) RenderLabConf(lab *compiler.Lab) ([]byte, error) {
	return r.execute(labTemplate, lab)
}

// RenderStartup renders the startup script of one host.
func (r *Renderer) RenderStartup(host *compiler.Host) ([]byte, error) {
	return r.execute(startupTemplate, host)
}

// RenderHosts renders the shared hosts file.
func (r *Renderer) RenderHosts(lab *compiler.Lab) ([]byte, error) {
	return r.execute(hostsTemplate, lab)
}

// RenderDiagram renders the topology as a Graphviz graph.
func (r *Renderer) RenderDiagram(lab *compiler.Lab) ([]byte, error) {
	return r.execute(diagramTemplate, lab)
}

func (r *Renderer) execute(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrTemplateExecution, name, err)
	}
	return normalize(buf.Bytes()), nil
}

// normalize drops the leading blank lines left by template trimming and
// terminates non-empty output with exactly one newline.
func normalize(b []byte) []byte {
	s := strings.Trim(string(b), "\n")
	if s == "" {
		return nil
	}
	return []byte(s + "\n")
}
