package network

import (
	"bytes"
	"fmt"
	"net"
	"sort"

	"github.com/apparentlymart/go-cidr/cidr"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ehsaniara/makelab/pkg/errors"
)

// AddressAllocator owns the allocation state of a single IPv4 block.
// It is not safe for concurrent use; every compilation builds its own.
type AddressAllocator struct {
	network string
	block   *net.IPNet

	// first and last bound the host offsets the sequential allocator may use.
	first int
	last  int

	// cursor is the next offset tried by AllocateNext. It only moves forward.
	cursor int

	allocated       mapset.Set[string] // IP string -> allocated
	gateway         net.IP
	gatewayReserved bool
}

// NewAllocator creates an allocator for block. offset is the first host
// offset AllocateNext will consider; offsets below the first host address
// are raised to it.
func NewAllocator(network string, block *net.IPNet, offset int) (*AddressAllocator, error) {
	if block == nil || block.IP.To4() == nil {
		return nil, errors.WrapNetworkError(network, "create allocator",
			fmt.Errorf("%w: IPv4 block required", errors.ErrInvalidTopology))
	}
	if offset < 0 {
		return nil, errors.WrapNetworkError(network, "create allocator",
			fmt.Errorf("%w: negative offset %d", errors.ErrInvalidTopology, offset))
	}

	first, last := hostRange(block)
	cursor := offset
	if cursor < first {
		cursor = first
	}

	return &AddressAllocator{
		network:   network,
		block:     &net.IPNet{IP: block.IP.To4(), Mask: block.Mask},
		first:     first,
		last:      last,
		cursor:    cursor,
		allocated: mapset.NewThreadUnsafeSet[string](),
	}, nil
}

// hostRange returns the first and last usable host offsets of block. The
// network and broadcast addresses are excluded except for /31 and /32
// blocks, where every address is usable.
func hostRange(block *net.IPNet) (int, int) {
	count := int(cidr.AddressCount(block))
	if count <= 2 {
		return 0, count - 1
	}
	return 1, count - 2
}

// Network returns the name of the network this allocator serves.
func (a *AddressAllocator) Network() string {
	return a.network
}

// Block returns the CIDR block this allocator serves.
func (a *AddressAllocator) Block() *net.IPNet {
	return a.block
}

// PrefixLen returns the prefix length of the block.
func (a *AddressAllocator) PrefixLen() int {
	ones, _ := a.block.Mask.Size()
	return ones
}

// Gateway returns the reserved gateway, or nil when the network has none.
func (a *AddressAllocator) Gateway() net.IP {
	return a.gateway
}

// Contains reports whether ip lies within the block.
func (a *AddressAllocator) Contains(ip net.IP) bool {
	return ip.To4() != nil && a.block.Contains(ip)
}

// IsAllocated reports whether ip has already been handed out or reserved.
func (a *AddressAllocator) IsAllocated(ip net.IP) bool {
	return a.allocated.Contains(ip.String())
}

// ReserveGateway resolves and reserves the network gateway. An explicit
// gateway must lie within the block. Without one, and with auto enabled, the
// first host address of the block becomes the gateway. It may be called only
// once per allocator and must run before any other allocation.
func (a *AddressAllocator) ReserveGateway(explicit net.IP, auto bool) (net.IP, error) {
	if a.gatewayReserved {
		return nil, errors.WrapNetworkError(a.network, "reserve gateway", errors.ErrGatewayAlreadyReserved)
	}
	a.gatewayReserved = true

	var gw net.IP
	switch {
	case explicit != nil:
		gw = explicit.To4()
		if gw == nil || !a.Contains(gw) {
			return nil, errors.NewInvalidAddressError(explicit.String(), a.block.String())
		}
	case auto:
		ip, err := cidr.Host(a.block, a.first)
		if err != nil {
			return nil, errors.NewAddressSpaceExhaustedError(a.network, a.block.String())
		}
		gw = ip.To4()
	default:
		return nil, nil
	}

	if a.IsAllocated(gw) {
		return nil, errors.NewAddressConflictError(gw.String(), a.network)
	}
	a.allocated.Add(gw.String())
	a.gateway = gw
	return gw, nil
}

// Reserve marks a fixed list of addresses as allocated. Either every address
// is reserved or, on error, none is.
func (a *AddressAllocator) Reserve(addrs ...net.IP) error {
	pending := mapset.NewThreadUnsafeSet[string]()
	for _, addr := range addrs {
		if !a.Contains(addr) {
			return errors.NewInvalidAddressError(addr.String(), a.block.String())
		}
		key := addr.String()
		if a.allocated.Contains(key) || pending.Contains(key) {
			return errors.NewAddressConflictError(key, a.network)
		}
		pending.Add(key)
	}
	a.allocated.Append(pending.ToSlice()...)
	return nil
}

// AllocateNext returns the next free address at or after the cursor and
// marks it allocated. Addresses are never handed out twice and the cursor
// never rewinds.
func (a *AddressAllocator) AllocateNext() (net.IP, error) {
	for ; a.cursor <= a.last; a.cursor++ {
		ip, err := cidr.Host(a.block, a.cursor)
		if err != nil {
			break
		}
		key := ip.String()
		if a.allocated.Contains(key) {
			continue
		}
		a.allocated.Add(key)
		a.cursor++
		return ip.To4(), nil
	}
	return nil, errors.NewAddressSpaceExhaustedError(a.network, a.block.String())
}

// Allocated returns every allocated address in ascending order.
func (a *AddressAllocator) Allocated() []net.IP {
	ips := make([]net.IP, 0, a.allocated.Cardinality())
	for _, s := range a.allocated.ToSlice() {
		ips = append(ips, net.ParseIP(s).To4())
	}
	sort.Slice(ips, func(i, j int) bool {
		return bytes.Compare(ips[i], ips[j]) < 0
	})
	return ips
}
