package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Instance represents an arx-inspect HTTP inspector found on the network
type Instance struct {
	// Name is the mDNS instance name (e.g., "arx-inspect-workbench")
	Name string

	// Host is the host part of the instance name (e.g., "workbench")
	Host string

	// Hostname is the mDNS hostname (e.g., "workbench.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 when no IPv4 address was announced
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data
	// Common fields: "version=v1.2.0", "layout=canonical", "path=/"
	Metadata map[string]string

	// DiscoveredAt is when the instance was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("arx-inspect %s (%s) at %s:%d", i.Host, i.Hostname, i.IP, i.Port)
}

// BaseURL returns the base URL of the inspector, using the announced
// scheme (http when none was announced)
func (i *Instance) BaseURL() string {
	scheme := i.GetMetadata("scheme")
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}
