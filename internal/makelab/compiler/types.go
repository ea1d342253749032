package compiler

import (
	"net"

	"github.com/ehsaniara/makelab/internal/makelab/topology"
)

// Interface is a realized host interface: a device bound to a network with
// its final addresses.
type Interface struct {
	Device    string   `json:"device" yaml:"device"`
	Network   string   `json:"network" yaml:"network"`
	PrefixLen int      `json:"prefixlen" yaml:"prefixlen"`
	Addresses []net.IP `json:"addresses" yaml:"addresses"`
}

// Host is the realized configuration of one lab host.
type Host struct {
	Name       string      `json:"name" yaml:"name"`
	Interfaces []Interface `json:"interfaces" yaml:"interfaces"`
	Routes     []string    `json:"routes" yaml:"routes"`
	Startup    string      `json:"startup,omitempty" yaml:"startup,omitempty"`
}

// Network is the resolved record of one lab network. CIDR and Gateway are
// empty for unaddressed networks.
type Network struct {
	Name      string   `json:"name" yaml:"name"`
	CIDR      string   `json:"cidr,omitempty" yaml:"cidr,omitempty"`
	PrefixLen int      `json:"prefixlen,omitempty" yaml:"prefixlen,omitempty"`
	Gateway   net.IP   `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	Allocated []net.IP `json:"allocated,omitempty" yaml:"allocated,omitempty"`
}

// Lab is the output of a successful compilation. Hosts and Networks keep the
// description order.
type Lab struct {
	Metadata *topology.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Networks []Network          `json:"networks" yaml:"networks"`
	Hosts    []Host             `json:"hosts" yaml:"hosts"`
}

// Host looks up a realized host by name.
func (l *Lab) Host(name string) (*Host, bool) {
	for i := range l.Hosts {
		if l.Hosts[i].Name == name {
			return &l.Hosts[i], true
		}
	}
	return nil, false
}

// Network looks up a resolved network by name.
func (l *Lab) Network(name string) (*Network, bool) {
	for i := range l.Networks {
		if l.Networks[i].Name == name {
			return &l.Networks[i], true
		}
	}
	return nil, false
}
