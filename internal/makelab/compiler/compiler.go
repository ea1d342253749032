// Package compiler turns a validated topology into a realized lab: every
// interface bound to concrete addresses, every gateway resolved and every
// host route list computed.
//
// Allocation runs in two passes per compilation. The first pass reserves all
// gateways and every explicit interface address; the second walks hosts in
// description order and fills automatic interfaces from each network's
// sequential allocator. Explicit addresses therefore never depend on where
// the hosts that use them appear in the description.
package compiler

import (
	"context"
	"fmt"
	"net"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ehsaniara/makelab/internal/makelab/network"
	"github.com/ehsaniara/makelab/internal/makelab/topology"
	"github.com/ehsaniara/makelab/pkg/errors"
	"github.com/ehsaniara/makelab/pkg/logger"
)

const (
	// DefaultDevicePrefix names interfaces eth0, eth1, ...
	DefaultDevicePrefix = "eth"

	tracerName = "github.com/ehsaniara/makelab/internal/makelab/compiler"
)

// Compiler compiles topologies. A Compiler holds no allocation state, so
// one instance may compile any number of topologies, concurrently if needed.
type Compiler struct {
	validator    *network.TopologyValidator
	devicePrefix string
	logger       *logger.Logger
	tracer       trace.Tracer
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithDevicePrefix sets the prefix of generated device names.
func WithDevicePrefix(prefix string) Option {
	return func(c *Compiler) {
		if prefix != "" {
			c.devicePrefix = prefix
		}
	}
}

// WithLogger replaces the compiler logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l.WithField("component", "compiler")
		}
	}
}

// WithTracerProvider uses tp instead of the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Compiler) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		validator:    network.NewTopologyValidator(),
		devicePrefix: DefaultDevicePrefix,
		logger:       logger.WithField("component", "compiler"),
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeviceName returns the device name of the n-th interface (0-based).
func DeviceName(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

// compilation holds the state of a single Compile call.
type compilation struct {
	topology   *topology.Topology
	allocators map[string]*network.AddressAllocator
}

// Compile validates t and realizes every network and host. On error nothing
// is returned: either the whole lab realizes or the compilation fails.
func (c *Compiler) Compile(ctx context.Context, t *topology.Topology) (*Lab, error) {
	ctx, span := c.tracer.Start(ctx, "compiler.Compile", trace.WithAttributes(
		attribute.Int("makelab.networks", len(t.Networks)),
		attribute.Int("makelab.hosts", len(t.Hosts)),
	))
	defer span.End()

	lab, err := c.compile(ctx, t)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compilation failed")
		c.logger.Debug("compilation failed", "error", err)
		return nil, err
	}

	c.logger.Debug("compilation finished", "networks", len(lab.Networks), "hosts", len(lab.Hosts))
	return lab, nil
}

func (c *Compiler) compile(ctx context.Context, t *topology.Topology) (*Lab, error) {
	if err := c.validate(ctx, t); err != nil {
		return nil, err
	}

	comp := &compilation{
		topology:   t,
		allocators: make(map[string]*network.AddressAllocator, len(t.Networks)),
	}

	if err := c.reserve(ctx, comp); err != nil {
		return nil, err
	}

	hosts, err := c.fill(ctx, comp)
	if err != nil {
		return nil, err
	}

	lab := &Lab{
		Metadata: t.Metadata,
		Networks: c.resolveNetworks(comp),
		Hosts:    hosts,
	}
	return lab, nil
}

func (c *Compiler) validate(ctx context.Context, t *topology.Topology) error {
	_, span := c.tracer.Start(ctx, "compiler.validate")
	defer span.End()

	return c.validator.Validate(t)
}

// reserve is the first pass: gateways, then explicit interface addresses in
// host description order.
func (c *Compiler) reserve(ctx context.Context, comp *compilation) error {
	_, span := c.tracer.Start(ctx, "compiler.reserve")
	defer span.End()

	for _, n := range comp.topology.Networks {
		if !n.Addressed() {
			continue
		}

		alloc, err := network.NewAllocator(n.Name, n.CIDR, n.Offset)
		if err != nil {
			return err
		}

		gw, err := alloc.ReserveGateway(n.Gateway, n.AutoGateway)
		if err != nil {
			return errors.WrapNetworkError(n.Name, "reserve gateway", err)
		}
		if gw != nil {
			c.logger.Debug("gateway reserved", "network", n.Name, "gateway", gw)
		}

		comp.allocators[n.Name] = alloc
	}

	for _, host := range comp.topology.Hosts {
		for idx, iface := range host.Interfaces {
			if iface.Automatic() {
				continue
			}
			// validation rejects explicit addresses on unaddressed networks
			alloc := comp.allocators[iface.Network]
			device := DeviceName(c.devicePrefix, idx)
			if err := alloc.Reserve(iface.Addresses...); err != nil {
				return errors.WrapCompileError(host.Name, device, iface.Network, err)
			}
			c.logger.Debug("addresses reserved", "host", host.Name, "device", device,
				"network", iface.Network, "count", len(iface.Addresses))
		}
	}

	return nil
}

// fill is the second pass: automatic allocation and route derivation.
func (c *Compiler) fill(ctx context.Context, comp *compilation) ([]Host, error) {
	_, span := c.tracer.Start(ctx, "compiler.fill")
	defer span.End()

	hosts := make([]Host, 0, len(comp.topology.Hosts))
	for _, host := range comp.topology.Hosts {
		realized, err := c.realizeHost(comp, host)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, realized)
	}
	return hosts, nil
}

func (c *Compiler) realizeHost(comp *compilation, host *topology.Host) (Host, error) {
	realized := Host{
		Name:       host.Name,
		Interfaces: make([]Interface, 0, len(host.Interfaces)),
		Routes:     make([]string, 0, len(host.Interfaces)+len(host.Routes)),
		Startup:    host.Startup,
	}

	for idx, iface := range host.Interfaces {
		device := DeviceName(c.devicePrefix, idx)
		alloc := comp.allocators[iface.Network]

		ri := Interface{
			Device:    device,
			Network:   iface.Network,
			Addresses: make([]net.IP, 0, len(iface.Addresses)+1),
		}

		switch {
		case alloc == nil:
			// unaddressed segment, nothing to bind
		case iface.Automatic():
			ip, err := alloc.AllocateNext()
			if err != nil {
				return Host{}, errors.WrapCompileError(host.Name, device, iface.Network, err)
			}
			c.logger.Debug("address allocated", "host", host.Name, "device", device,
				"network", iface.Network, "address", ip)
			ri.Addresses = append(ri.Addresses, ip)
		default:
			for _, ip := range iface.Addresses {
				ri.Addresses = append(ri.Addresses, ip.To4())
			}
		}

		if alloc != nil {
			ri.PrefixLen = alloc.PrefixLen()
		}
		realized.Interfaces = append(realized.Interfaces, ri)

		if host.AutoGateway && alloc != nil && alloc.Gateway() != nil {
			realized.Routes = append(realized.Routes, fmt.Sprintf("default via %s", alloc.Gateway()))
		}
	}

	realized.Routes = append(realized.Routes, host.Routes...)
	return realized, nil
}

func (c *Compiler) resolveNetworks(comp *compilation) []Network {
	networks := make([]Network, 0, len(comp.topology.Networks))
	for _, n := range comp.topology.Networks {
		resolved := Network{Name: n.Name, CIDR: n.CIDRString()}
		if alloc, ok := comp.allocators[n.Name]; ok {
			resolved.PrefixLen = alloc.PrefixLen()
			resolved.Gateway = alloc.Gateway()
			resolved.Allocated = alloc.Allocated()
		}
		networks = append(networks, resolved)
	}
	return networks
}
