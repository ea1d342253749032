// Package topology defines the in-memory description of a virtual network
// lab: named IPv4 networks, hosts, and the interfaces that attach hosts to
// networks. Values are produced by Decode/Load and are read-only to the
// compiler.
package topology

import (
	"net"
)

const (
	// DefaultOffset is the first host offset handed out by the sequential allocator.
	DefaultOffset = 1
)

// Metadata is free-form information about the lab. It is carried through to
// the rendered lab descriptor and never interpreted.
type Metadata struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Email       string `yaml:"email,omitempty" json:"email,omitempty"`
	URL         string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Network is a named IPv4 subnet. A Network with a nil CIDR is an unaddressed
// segment: hosts can attach to it but nothing is allocated on it.
type Network struct {
	Name        string
	CIDR        *net.IPNet
	Gateway     net.IP // explicit gateway, nil when not given
	Offset      int
	AutoGateway bool
}

// Addressed reports whether the network owns an address block.
func (n *Network) Addressed() bool {
	return n != nil && n.CIDR != nil
}

// PrefixLen returns the prefix length of the network, or 0 when unaddressed.
func (n *Network) PrefixLen() int {
	if !n.Addressed() {
		return 0
	}
	ones, _ := n.CIDR.Mask.Size()
	return ones
}

// CIDRString returns the block in CIDR notation, or "" when unaddressed.
func (n *Network) CIDRString() string {
	if !n.Addressed() {
		return ""
	}
	return n.CIDR.String()
}

// Interface attaches a host to a network. An interface without explicit
// addresses requests one automatically allocated address.
type Interface struct {
	Network   string
	Addresses []net.IP
}

// Automatic reports whether the interface asks the allocator for its address.
func (i *Interface) Automatic() bool {
	return len(i.Addresses) == 0
}

// Host is a lab machine. Interface order is significant: the n-th interface
// becomes the n-th device.
type Host struct {
	Name        string
	AutoGateway bool
	Interfaces  []*Interface
	Routes      []string
	Startup     string
}

// Topology is the root of a lab description. Networks and Hosts keep the
// order in which they appear in the description. The slices are the only
// source of truth, so a Topology may also be built as a struct literal.
type Topology struct {
	Metadata *Metadata
	Networks []*Network
	Hosts    []*Host
}

// New builds a Topology from already constructed networks and hosts.
// Names must be unique within each list.
func New(metadata *Metadata, networks []*Network, hosts []*Host) (*Topology, error) {
	t := &Topology{Metadata: metadata}
	for _, n := range networks {
		if err := t.addNetwork(n); err != nil {
			return nil, err
		}
	}
	for _, h := range hosts {
		if err := t.addHost(h); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Network looks up a network by name. When names repeat, the first one in
// description order wins.
func (t *Topology) Network(name string) (*Network, bool) {
	for _, n := range t.Networks {
		if n != nil && n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Host looks up a host by name.
func (t *Topology) Host(name string) (*Host, bool) {
	for _, h := range t.Hosts {
		if h != nil && h.Name == name {
			return h, true
		}
	}
	return nil, false
}
