package topology

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ehsaniara/makelab/pkg/errors"
)

// networkYAML is the wire form of a network entry.
type networkYAML struct {
	CIDR        string `yaml:"cidr"`
	Gateway     string `yaml:"gateway"`
	Offset      *int   `yaml:"offset"`
	AutoGateway *bool  `yaml:"autogateway"`
}

// interfaceYAML is the wire form of a host interface.
// Example YAML:
//
//	- network: net0
//	  address: 192.168.1.5
//	- network: net1
//	  address: [10.0.0.5, 10.0.0.6]
//	- network: net2
type interfaceYAML struct {
	Network string      `yaml:"network"`
	Address addressList `yaml:"address"`
}

// hostYAML is the wire form of a host. "connections" is accepted as an
// alias of "interfaces".
type hostYAML struct {
	AutoGateway *bool           `yaml:"autogateway"`
	Interfaces  []interfaceYAML `yaml:"interfaces"`
	Connections []interfaceYAML `yaml:"connections"`
	Routes      []string        `yaml:"routes"`
	Startup     string          `yaml:"startup"`
}

// addressList accepts either a single address or a sequence of addresses.
type addressList []string

func (a *addressList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			*a = nil
			return nil
		}
		*a = addressList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil
	default:
		return fmt.Errorf("line %d: address must be a string or a list of strings", value.Line)
	}
}

// Load reads and decodes a topology description from path.
func Load(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFilesystemError(path, "read", err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses a YAML topology description.
func Decode(data []byte) (*Topology, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewInvalidTopologyError("%v", err)
	}
	if len(doc.Content) == 0 {
		return nil, errors.NewInvalidTopologyError("empty topology description")
	}

	var t Topology
	if err := doc.Content[0].Decode(&t); err != nil {
		if errors.IsStructuralError(err) {
			return nil, err
		}
		return nil, errors.NewInvalidTopologyError("%v", err)
	}
	return &t, nil
}

// UnmarshalYAML walks the document node by node so that the order of the
// networks and hosts mappings is kept.
func (t *Topology) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.NewInvalidTopologyError("line %d: topology must be a mapping", value.Line)
	}

	var sawNetworks, sawHosts bool
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		switch key.Value {
		case "metadata":
			if val.ShortTag() == "!!null" {
				continue
			}
			var md Metadata
			if err := val.Decode(&md); err != nil {
				return errors.NewInvalidTopologyError("metadata: %v", err)
			}
			t.Metadata = &md
		case "networks":
			sawNetworks = true
			if err := t.decodeNetworks(val); err != nil {
				return err
			}
		case "hosts":
			sawHosts = true
			if err := t.decodeHosts(val); err != nil {
				return err
			}
		}
	}

	if !sawNetworks {
		return errors.NewInvalidTopologyError("missing networks section")
	}
	if !sawHosts {
		return errors.NewInvalidTopologyError("missing hosts section")
	}
	return nil
}

func (t *Topology) decodeNetworks(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return errors.NewInvalidTopologyError("line %d: networks must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		network, err := decodeNetwork(name, node.Content[i+1])
		if err != nil {
			return err
		}
		if err := t.addNetwork(network); err != nil {
			return err
		}
	}
	return nil
}

func decodeNetwork(name string, node *yaml.Node) (*Network, error) {
	network := &Network{
		Name:        name,
		Offset:      DefaultOffset,
		AutoGateway: true,
	}

	// A null entry declares an unaddressed segment.
	if node.ShortTag() == "!!null" {
		return network, nil
	}

	var raw networkYAML
	if err := node.Decode(&raw); err != nil {
		return nil, errors.NewInvalidTopologyError("network %s: %v", name, err)
	}

	if raw.CIDR == "" {
		if raw.Gateway != "" {
			return nil, errors.NewInvalidTopologyError("network %s: gateway given without cidr", name)
		}
		return network, nil
	}

	cidr, err := ParseCIDR(raw.CIDR)
	if err != nil {
		return nil, errors.NewInvalidTopologyError("network %s: %v", name, err)
	}
	network.CIDR = cidr

	if raw.Gateway != "" {
		gw, err := ParseIPv4(raw.Gateway)
		if err != nil {
			return nil, errors.NewInvalidTopologyError("network %s: gateway: %v", name, err)
		}
		network.Gateway = gw
	}
	if raw.Offset != nil {
		if *raw.Offset < 0 {
			return nil, errors.NewInvalidTopologyError("network %s: offset must not be negative", name)
		}
		network.Offset = *raw.Offset
	}
	if raw.AutoGateway != nil {
		network.AutoGateway = *raw.AutoGateway
	}

	return network, nil
}

func (t *Topology) decodeHosts(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return errors.NewInvalidTopologyError("line %d: hosts must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		host, err := decodeHost(name, node.Content[i+1])
		if err != nil {
			return err
		}
		if err := t.addHost(host); err != nil {
			return err
		}
	}
	return nil
}

func decodeHost(name string, node *yaml.Node) (*Host, error) {
	var raw hostYAML
	if node.ShortTag() != "!!null" {
		if err := node.Decode(&raw); err != nil {
			return nil, errors.NewInvalidTopologyError("host %s: %v", name, err)
		}
	}

	if len(raw.Interfaces) > 0 && len(raw.Connections) > 0 {
		return nil, errors.NewInvalidTopologyError("host %s: use either interfaces or connections, not both", name)
	}
	ifaces := raw.Interfaces
	if len(ifaces) == 0 {
		ifaces = raw.Connections
	}

	host := &Host{
		Name:        name,
		AutoGateway: true,
		Interfaces:  make([]*Interface, 0, len(ifaces)),
		Routes:      raw.Routes,
		Startup:     raw.Startup,
	}
	if raw.AutoGateway != nil {
		host.AutoGateway = *raw.AutoGateway
	}

	for n, rawIface := range ifaces {
		if rawIface.Network == "" {
			return nil, errors.NewInvalidTopologyError("host %s: interface %d: missing network", name, n)
		}
		iface := &Interface{Network: rawIface.Network}
		for _, addr := range rawIface.Address {
			ip, err := ParseIPv4(addr)
			if err != nil {
				return nil, errors.NewInvalidTopologyError("host %s: interface %d: %v", name, n, err)
			}
			iface.Addresses = append(iface.Addresses, ip)
		}
		host.Interfaces = append(host.Interfaces, iface)
	}

	return host, nil
}

func (t *Topology) addNetwork(n *Network) error {
	if _, exists := t.Network(n.Name); exists {
		return errors.NewInvalidTopologyError("duplicate network %q", n.Name)
	}
	t.Networks = append(t.Networks, n)
	return nil
}

func (t *Topology) addHost(h *Host) error {
	if _, exists := t.Host(h.Name); exists {
		return errors.NewInvalidTopologyError("duplicate host %q", h.Name)
	}
	t.Hosts = append(t.Hosts, h)
	return nil
}

// ParseCIDR parses an IPv4 block. The base address must not have host bits set.
func ParseCIDR(s string) (*net.IPNet, error) {
	ip, ipNet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR format: %w", err)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("%s is not an IPv4 block", s)
	}
	if !ip.Equal(ipNet.IP) {
		return nil, fmt.Errorf("%s has host bits set", s)
	}
	return &net.IPNet{IP: ipNet.IP.To4(), Mask: ipNet.Mask}, nil
}

// ParseIPv4 parses a dotted-quad IPv4 address.
func ParseIPv4(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address %q", s)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("%s is not an IPv4 address", s)
	}
	return ip4, nil
}
