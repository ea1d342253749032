package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnknownNetworkError(t *testing.T) {
	err := NewUnknownNetworkError("h1", "ghost")

	expectedMsg := `host h1: unknown network "ghost"`
	if err.Error() != expectedMsg {
		t.Errorf("UnknownNetworkError.Error() = %v, want %v", err.Error(), expectedMsg)
	}
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Error("UnknownNetworkError should unwrap to ErrUnknownNetwork")
	}
	if !IsStructuralError(err) {
		t.Error("UnknownNetworkError should be a structural error")
	}
}

func TestInvalidAddressError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "outside block",
			err:      NewInvalidAddressError("192.168.2.1", "192.168.1.0/28"),
			expected: "invalid address 192.168.2.1: not in 192.168.1.0/28",
		},
		{
			name:     "unaddressed network",
			err:      NewInvalidAddressError("10.0.0.1", ""),
			expected: "invalid address 10.0.0.1: network has no address block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.expected)
			}
			if !IsInvalidAddress(tt.err) {
				t.Error("IsInvalidAddress() = false, want true")
			}
		})
	}
}

func TestAddressConflictError(t *testing.T) {
	err := NewAddressConflictError("192.168.1.1", "net0")

	expectedMsg := "network net0: address conflict: 192.168.1.1 is already allocated"
	if err.Error() != expectedMsg {
		t.Errorf("AddressConflictError.Error() = %v, want %v", err.Error(), expectedMsg)
	}
	if !IsAddressConflict(err) || IsStructuralError(err) {
		t.Error("AddressConflictError should be an address conflict and not a structural error")
	}
}

func TestAddressSpaceExhaustedError(t *testing.T) {
	err := NewAddressSpaceExhaustedError("tiny", "10.0.0.0/30")

	expectedMsg := "network tiny: address space exhausted (10.0.0.0/30)"
	if err.Error() != expectedMsg {
		t.Errorf("AddressSpaceExhaustedError.Error() = %v, want %v", err.Error(), expectedMsg)
	}
	if !IsAddressSpaceExhausted(err) {
		t.Error("IsAddressSpaceExhausted() = false, want true")
	}
	if IsStructuralError(err) {
		t.Error("exhaustion is not a structural error")
	}
}

func TestNetworkError(t *testing.T) {
	originalErr := errors.New("boom")
	networkErr := &NetworkError{
		Network:   "net0",
		Operation: "reserve_gateway",
		Err:       originalErr,
	}

	expectedMsg := "network net0: operation reserve_gateway: boom"
	if networkErr.Error() != expectedMsg {
		t.Errorf("NetworkError.Error() = %v, want %v", networkErr.Error(), expectedMsg)
	}
	if unwrapped := networkErr.Unwrap(); unwrapped != originalErr {
		t.Errorf("NetworkError.Unwrap() = %v, want %v", unwrapped, originalErr)
	}
}

func TestCompileError(t *testing.T) {
	inner := NewAddressConflictError("10.0.0.9", "net0")
	err := WrapCompileError("h2", "eth0", "net0", inner)

	expectedMsg := "host h2: interface eth0 (network net0): network net0: address conflict: 10.0.0.9 is already allocated"
	if err.Error() != expectedMsg {
		t.Errorf("CompileError.Error() = %v, want %v", err.Error(), expectedMsg)
	}
	if !IsCompileError(err) || !IsAddressConflict(err) {
		t.Error("wrapped compile error should keep its classification")
	}
}

func TestFilesystemError(t *testing.T) {
	err := NewFilesystemError("/tmp/lab", "write", fmt.Errorf("permission denied"))

	if !IsFilesystemError(err) {
		t.Error("IsFilesystemError() = false, want true")
	}
	if !errors.Is(err, ErrFilesystemFailed) {
		t.Error("NewFilesystemError should wrap ErrFilesystemFailed")
	}

	expectedMsg := "filesystem /tmp/lab: operation write: filesystem operation failed: permission denied"
	if err.Error() != expectedMsg {
		t.Errorf("FilesystemError.Error() = %v, want %v", err.Error(), expectedMsg)
	}
}

func TestConfigError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name:     "with field",
			err:      &ConfigError{Component: "logging", Field: "level", Err: errors.New("bad")},
			expected: "config logging.level: bad",
		},
		{
			name:     "without field",
			err:      &ConfigError{Component: "output", Err: errors.New("bad")},
			expected: "config output: bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("ConfigError.Error() = %v, want %v", tt.err.Error(), tt.expected)
			}
		})
	}

	if !errors.Is(NewConfigError("output", "directory", errors.New("empty")), ErrInvalidConfig) {
		t.Error("NewConfigError should wrap ErrInvalidConfig")
	}
}

func TestWrapNil(t *testing.T) {
	if WrapNetworkError("n", "op", nil) != nil {
		t.Error("WrapNetworkError(nil) should be nil")
	}
	if WrapCompileError("h", "eth0", "n", nil) != nil {
		t.Error("WrapCompileError(nil) should be nil")
	}
	if WrapFilesystemError("/p", "op", nil) != nil {
		t.Error("WrapFilesystemError(nil) should be nil")
	}
	if WrapConfigError("c", "f", nil) != nil {
		t.Error("WrapConfigError(nil) should be nil")
	}
}

func TestNewInvalidTopologyError(t *testing.T) {
	err := NewInvalidTopologyError("duplicate host %q", "h1")

	if !errors.Is(err, ErrInvalidTopology) {
		t.Error("should wrap ErrInvalidTopology")
	}
	expectedMsg := `invalid topology: duplicate host "h1"`
	if err.Error() != expectedMsg {
		t.Errorf("Error() = %v, want %v", err.Error(), expectedMsg)
	}
}

func TestGetHostAndNetwork(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantHost    string
		hasHost     bool
		wantNetwork string
		hasNetwork  bool
	}{
		{
			name:        "compile error",
			err:         WrapCompileError("h1", "eth1", "net1", NewAddressSpaceExhaustedError("net1", "10.0.0.0/30")),
			wantHost:    "h1",
			hasHost:     true,
			wantNetwork: "net1",
			hasNetwork:  true,
		},
		{
			name:        "unknown network",
			err:         NewUnknownNetworkError("h2", "ghost"),
			wantHost:    "h2",
			hasHost:     true,
			wantNetwork: "ghost",
			hasNetwork:  true,
		},
		{
			name:        "network error",
			err:         WrapNetworkError("net0", "reserve_gateway", ErrAddressConflict),
			wantNetwork: "net0",
			hasNetwork:  true,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, ok := GetHost(tt.err)
			if ok != tt.hasHost || host != tt.wantHost {
				t.Errorf("GetHost() = %q, %v, want %q, %v", host, ok, tt.wantHost, tt.hasHost)
			}
			network, ok := GetNetwork(tt.err)
			if ok != tt.hasNetwork || network != tt.wantNetwork {
				t.Errorf("GetNetwork() = %q, %v, want %q, %v", network, ok, tt.wantNetwork, tt.hasNetwork)
			}
		})
	}
}
