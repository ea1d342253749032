// Package errors provides the error taxonomy for makelab.
// Every failure that crosses the compiler boundary is one of the typed errors
// below, and each of them unwraps to a sentinel so callers can use errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Structural errors
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrInvalidTopology = errors.New("invalid topology")

	// Address-space errors
	ErrInvalidAddress         = errors.New("invalid address")
	ErrAddressConflict        = errors.New("address conflict")
	ErrAddressSpaceExhausted  = errors.New("address space exhausted")
	ErrGatewayAlreadyReserved = errors.New("gateway already reserved")

	// System-related errors
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrFilesystemFailed  = errors.New("filesystem operation failed")
	ErrTemplateExecution = errors.New("template execution failed")
)

// UnknownNetworkError is returned when a host interface references a network
// that is not declared in the topology.
type UnknownNetworkError struct {
	Host    string
	Network string
}

func (e *UnknownNetworkError) Error() string {
	return fmt.Sprintf("host %s: %v %q", e.Host, ErrUnknownNetwork, e.Network)
}

func (e *UnknownNetworkError) Unwrap() error {
	return ErrUnknownNetwork
}

// InvalidAddressError is returned for an address that does not lie within
// the CIDR block it was requested from. CIDR is empty for unaddressed networks.
type InvalidAddressError struct {
	Address string
	CIDR    string
}

func (e *InvalidAddressError) Error() string {
	if e.CIDR == "" {
		return fmt.Sprintf("%v %s: network has no address block", ErrInvalidAddress, e.Address)
	}
	return fmt.Sprintf("%v %s: not in %s", ErrInvalidAddress, e.Address, e.CIDR)
}

func (e *InvalidAddressError) Unwrap() error {
	return ErrInvalidAddress
}

// AddressConflictError is returned when an address is reserved twice on the
// same network.
type AddressConflictError struct {
	Address string
	Network string
}

func (e *AddressConflictError) Error() string {
	return fmt.Sprintf("network %s: %v: %s is already allocated", e.Network, ErrAddressConflict, e.Address)
}

func (e *AddressConflictError) Unwrap() error {
	return ErrAddressConflict
}

// AddressSpaceExhaustedError is returned when the sequential allocator runs
// past the last host address of the block.
type AddressSpaceExhaustedError struct {
	Network string
	CIDR    string
}

func (e *AddressSpaceExhaustedError) Error() string {
	return fmt.Sprintf("network %s: %v (%s)", e.Network, ErrAddressSpaceExhausted, e.CIDR)
}

func (e *AddressSpaceExhaustedError) Unwrap() error {
	return ErrAddressSpaceExhausted
}

// NetworkError represents an error related to a network definition
type NetworkError struct {
	Network   string
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network %s: operation %s: %v", e.Network, e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CompileError attaches the failing host and interface to an allocation error.
type CompileError struct {
	Host    string
	Device  string
	Network string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("host %s: interface %s (network %s): %v", e.Host, e.Device, e.Network, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// FilesystemError represents an error related to filesystem operations
type FilesystemError struct {
	Path      string
	Operation string
	Err       error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s: operation %s: %v", e.Path, e.Operation, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Component string
	Field     string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s.%s: %v", e.Component, e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Component, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error wrapping constructors
func WrapNetworkError(network, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Network: network, Operation: operation, Err: err}
}

func WrapCompileError(host, device, network string, err error) error {
	if err == nil {
		return nil
	}
	return &CompileError{Host: host, Device: device, Network: network, Err: err}
}

func WrapFilesystemError(path, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Path: path, Operation: operation, Err: err}
}

func WrapConfigError(component, field string, err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Component: component, Field: field, Err: err}
}

// Error classification functions
func IsUnknownNetwork(err error) bool {
	return errors.Is(err, ErrUnknownNetwork)
}

func IsInvalidAddress(err error) bool {
	return errors.Is(err, ErrInvalidAddress)
}

func IsAddressConflict(err error) bool {
	return errors.Is(err, ErrAddressConflict)
}

func IsAddressSpaceExhausted(err error) bool {
	return errors.Is(err, ErrAddressSpaceExhausted)
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

func IsFilesystemError(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsStructuralError reports errors about the shape of the topology rather
// than its address space.
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrUnknownNetwork) || errors.Is(err, ErrInvalidTopology)
}

// Error extraction helpers
func GetHost(err error) (string, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Host, true
	}
	var ue *UnknownNetworkError
	if errors.As(err, &ue) {
		return ue.Host, true
	}
	return "", false
}

func GetNetwork(err error) (string, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Network, true
	}
	var ue *UnknownNetworkError
	if errors.As(err, &ue) {
		return ue.Network, true
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Network, true
	}
	return "", false
}

// Convenience functions for common error patterns
func NewUnknownNetworkError(host, network string) error {
	return &UnknownNetworkError{Host: host, Network: network}
}

func NewInvalidAddressError(address, cidr string) error {
	return &InvalidAddressError{Address: address, CIDR: cidr}
}

func NewAddressConflictError(address, network string) error {
	return &AddressConflictError{Address: address, Network: network}
}

func NewAddressSpaceExhaustedError(network, cidr string) error {
	return &AddressSpaceExhaustedError{Network: network, CIDR: cidr}
}

func NewInvalidTopologyError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTopology, fmt.Sprintf(format, args...))
}

func NewFilesystemError(path, operation string, err error) error {
	return WrapFilesystemError(path, operation, fmt.Errorf("%w: %v", ErrFilesystemFailed, err))
}

func NewConfigError(component, field string, err error) error {
	return WrapConfigError(component, field, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
}
