package render_test

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehsaniara/makelab/internal/makelab/compiler"
	"github.com/ehsaniara/makelab/internal/makelab/render"
	"github.com/ehsaniara/makelab/internal/makelab/render/renderfakes"
	"github.com/ehsaniara/makelab/internal/makelab/topology"
	"github.com/ehsaniara/makelab/pkg/errors"
)

func sampleLab() *compiler.Lab {
	return &compiler.Lab{
		Metadata: &topology.Metadata{Description: "two hosts", Author: "lab team"},
		Networks: []compiler.Network{
			{Name: "net0", CIDR: "10.0.0.0/24", PrefixLen: 24, Gateway: net.ParseIP("10.0.0.1").To4()},
			{Name: "lan"},
		},
		Hosts: []compiler.Host{
			{
				Name: "router",
				Interfaces: []compiler.Interface{
					{Device: "eth0", Network: "net0", PrefixLen: 24, Addresses: []net.IP{net.ParseIP("10.0.0.2").To4(), net.ParseIP("10.0.0.3").To4()}},
					{Device: "eth1", Network: "lan", Addresses: []net.IP{}},
				},
				Routes:  []string{"default via 10.0.0.1", "172.16.0.0/12 via 10.0.0.254"},
				Startup: "sysctl -w net.ipv4.ip_forward=1\n",
			},
			{
				Name: "pc",
				Interfaces: []compiler.Interface{
					{Device: "eth0", Network: "net0", PrefixLen: 24, Addresses: []net.IP{net.ParseIP("10.0.0.4").To4()}},
				},
			},
		},
	}
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.DefaultOptions())
	require.NoError(t, err)
	return r
}

func TestRenderLabConf(t *testing.T) {
	out, err := newRenderer(t).RenderLabConf(sampleLab())
	require.NoError(t, err)

	assert.Equal(t, `LAB_DESCRIPTION="two hosts"
LAB_AUTHOR="lab team"

router[0]="net0"
router[1]="lan"
pc[0]="net0"
`, string(out))
}

func TestRenderLabConf_NoMetadata(t *testing.T) {
	lab := sampleLab()
	lab.Metadata = nil

	out, err := newRenderer(t).RenderLabConf(lab)
	require.NoError(t, err)
	assert.Equal(t, "router[0]=\"net0\"\nrouter[1]=\"lan\"\npc[0]=\"net0\"\n", string(out))
}

func TestRenderStartup(t *testing.T) {
	lab := sampleLab()
	out, err := newRenderer(t).RenderStartup(&lab.Hosts[0])
	require.NoError(t, err)

	assert.Equal(t, `ip addr add 10.0.0.2/24 dev eth0
ip addr add 10.0.0.3/24 dev eth0
ip route add default via 10.0.0.1
ip route add 172.16.0.0/12 via 10.0.0.254
sysctl -w net.ipv4.ip_forward=1
`, string(out))
}

func TestRenderStartup_EmptyHost(t *testing.T) {
	out, err := newRenderer(t).RenderStartup(&compiler.Host{Name: "idle"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderHosts(t *testing.T) {
	out, err := newRenderer(t).RenderHosts(sampleLab())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2 router\n10.0.0.3 router\n10.0.0.4 pc\n", string(out))
}

func TestRenderDiagram(t *testing.T) {
	out, err := newRenderer(t).RenderDiagram(sampleLab())
	require.NoError(t, err)

	assert.Equal(t, `strict graph topology {
  "net0";
  "lan";
  "router" [shape=box];
  "pc" [shape=box];
  "router" -- "net0";
  "router" -- "lan";
  "pc" -- "net0";
}
`, string(out))
}

func TestRender_WritesFilesInOrder(t *testing.T) {
	w := &renderfakes.FakeWriter{}
	require.NoError(t, newRenderer(t).Render(sampleLab(), w))

	require.Equal(t, 5, w.WriteFileCallCount())
	var names []string
	for i := 0; i < w.WriteFileCallCount(); i++ {
		name, _ := w.WriteFileArgsForCall(i)
		names = append(names, name)
	}
	assert.Equal(t, []string{"lab.conf", "router.startup", "pc.startup", "shared/hosts", "topology.dot"}, names)

	_, data := w.WriteFileArgsForCall(2)
	assert.Equal(t, "ip addr add 10.0.0.4/24 dev eth0\n", string(data))
}

func TestRender_DiagramDisabled(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Diagram = false
	opts.StartupSuffix = ".sh"
	r, err := render.New(opts)
	require.NoError(t, err)

	w := &renderfakes.FakeWriter{}
	require.NoError(t, r.Render(sampleLab(), w))
	require.Equal(t, 4, w.WriteFileCallCount())

	name, _ := w.WriteFileArgsForCall(1)
	assert.Equal(t, "router.sh", name)
	name, _ = w.WriteFileArgsForCall(3)
	assert.Equal(t, "shared/hosts", name)
}

func TestRender_StopsOnWriteError(t *testing.T) {
	w := &renderfakes.FakeWriter{}
	w.WriteFileReturnsOnCall(1, fmt.Errorf("disk full"))

	err := newRenderer(t).Render(sampleLab(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, w.WriteFileCallCount())
}

func TestDirWriter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, newRenderer(t).Render(sampleLab(), render.NewDirWriter(dir)))

	data, err := os.ReadFile(filepath.Join(dir, "shared", "hosts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "10.0.0.4 pc")

	_, err = os.Stat(filepath.Join(dir, "router.startup"))
	assert.NoError(t, err)
}

func TestDirWriter_RejectsEscapingNames(t *testing.T) {
	w := render.NewDirWriter(t.TempDir())

	for _, name := range []string{"../outside", "/etc/passwd", ""} {
		err := w.WriteFile(name, []byte("x"))
		assert.True(t, errors.IsFilesystemError(err), name)
	}
}
