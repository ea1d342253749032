package network

import (
	"github.com/ehsaniara/makelab/internal/makelab/topology"
	"github.com/ehsaniara/makelab/pkg/errors"
)

// TopologyValidator checks the referential integrity of a topology before
// anything is allocated. It never modifies the topology.
type TopologyValidator struct{}

// NewTopologyValidator creates a new topology validator
func NewTopologyValidator() *TopologyValidator {
	return &TopologyValidator{}
}

// Validate scans hosts in description order, then interfaces in device
// order, and returns the first violation found:
//   - an interface referencing an undeclared network (UnknownNetworkError)
//   - an explicit address outside the referenced network's block, or any
//     explicit address on an unaddressed network (InvalidAddressError)
//   - an explicit network gateway outside the network's block (InvalidAddressError)
func (tv *TopologyValidator) Validate(t *topology.Topology) error {
	for _, host := range t.Hosts {
		if err := tv.ValidateHost(t, host); err != nil {
			return err
		}
	}

	for _, n := range t.Networks {
		if err := tv.ValidateNetwork(n); err != nil {
			return err
		}
	}

	return nil
}

// ValidateHost checks every interface of a single host.
func (tv *TopologyValidator) ValidateHost(t *topology.Topology, host *topology.Host) error {
	for _, iface := range host.Interfaces {
		n, ok := t.Network(iface.Network)
		if !ok {
			return errors.NewUnknownNetworkError(host.Name, iface.Network)
		}

		for _, addr := range iface.Addresses {
			if !n.Addressed() || addr.To4() == nil || !n.CIDR.Contains(addr) {
				return errors.NewInvalidAddressError(addr.String(), n.CIDRString())
			}
		}
	}
	return nil
}

// ValidateNetwork checks the explicit gateway of a network against its block.
func (tv *TopologyValidator) ValidateNetwork(n *topology.Network) error {
	if n.Gateway == nil {
		return nil
	}
	if !n.Addressed() || n.Gateway.To4() == nil || !n.CIDR.Contains(n.Gateway) {
		return errors.NewInvalidAddressError(n.Gateway.String(), n.CIDRString())
	}
	return nil
}
