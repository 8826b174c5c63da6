package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entryFor(instance, hostname string, port int, v4, v6 []net.IP, txt []string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: instance,
			Service:  ServiceType,
			Domain:   ServiceDomain,
		},
		HostName: hostname,
		Port:     port,
		AddrIPv4: v4,
		AddrIPv6: v6,
		Text:     txt,
	}
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantHost string
		wantIP   string
		wantPort int
	}{
		{
			name:     "inspector with IPv4",
			entry:    entryFor("arx-inspect-workbench", "workbench.local.", 8080, []net.IP{net.ParseIP("192.168.4.16")}, nil, []string{"app=arx-inspect"}),
			wantHost: "workbench",
			wantIP:   "192.168.4.16",
			wantPort: 8080,
		},
		{
			name:     "inspector on custom port",
			entry:    entryFor("arx-inspect-lab-pi", "lab-pi.local", 9000, []net.IP{net.ParseIP("10.0.0.5")}, nil, nil),
			wantHost: "lab-pi",
			wantIP:   "10.0.0.5",
			wantPort: 9000,
		},
		{
			name:     "no port defaults",
			entry:    entryFor("arx-inspect-bench", "bench.local", 0, []net.IP{net.ParseIP("172.16.0.1")}, nil, nil),
			wantHost: "bench",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name:    "other http service",
			entry:   entryFor("printer", "printer.local", 80, []net.IP{net.ParseIP("192.168.1.1")}, nil, nil),
			wantNil: true,
		},
		{
			name:    "prefix without host",
			entry:   entryFor("arx-inspect-", "x.local", 8080, []net.IP{net.ParseIP("192.168.1.1")}, nil, nil),
			wantNil: true,
		},
		{
			name:    "no IP address",
			entry:   entryFor("arx-inspect-workbench", "workbench.local", 8080, nil, nil, nil),
			wantNil: true,
		},
		{
			name:     "IPv6 only",
			entry:    entryFor("arx-inspect-v6", "v6.local", 8080, nil, []net.IP{net.ParseIP("fe80::1")}, nil),
			wantHost: "v6",
			wantIP:   "fe80::1",
			wantPort: 8080,
		},
		{
			name:     "both IPv4 and IPv6 prefers IPv4",
			entry:    entryFor("arx-inspect-dual", "dual.local", 8080, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}, nil),
			wantHost: "dual",
			wantIP:   "192.168.1.50",
			wantPort: 8080,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if inst != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", inst)
				}
				return
			}

			if inst == nil {
				t.Fatal("parseServiceEntry() = nil, want instance")
			}
			if inst.Name != tt.entry.Instance {
				t.Errorf("Name = %q, want %q", inst.Name, tt.entry.Instance)
			}
			if inst.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", inst.Host, tt.wantHost)
			}
			if inst.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", inst.IP, tt.wantIP)
			}
			if inst.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", inst.Port, tt.wantPort)
			}
			if inst.Hostname != tt.entry.HostName {
				t.Errorf("Hostname = %q, want %q", inst.Hostname, tt.entry.HostName)
			}
			if time.Since(inst.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", inst.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := entryFor("arx-inspect-workbench", "workbench.local", 8080,
		[]net.IP{net.ParseIP("192.168.4.16")}, nil,
		[]string{"app=arx-inspect", "version=1.2.0", "flag", "layout=advertising"})

	inst := scanner.parseServiceEntry(entry)
	if inst == nil {
		t.Fatal("parseServiceEntry() = nil, want instance")
	}

	want := map[string]string{
		"app":     "arx-inspect",
		"version": "1.2.0",
		"flag":    "",
		"layout":  "advertising",
	}
	if len(inst.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(inst.Metadata), len(want))
	}
	for key, value := range want {
		if got, ok := inst.Metadata[key]; !ok {
			t.Errorf("Metadata missing key %q", key)
		} else if got != value {
			t.Errorf("Metadata[%q] = %q, want %q", key, got, value)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestInstancePattern(t *testing.T) {
	tests := []struct {
		name        string
		shouldMatch bool
		host        string
	}{
		{"arx-inspect-workbench", true, "workbench"},
		{"arx-inspect-lab-pi-2", true, "lab-pi-2"},
		{"arx-inspect-", false, ""},
		{"ARX-INSPECT-workbench", false, ""},
		{"my-arx-inspect-workbench", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := instancePattern.FindStringSubmatch(tt.name)
			if tt.shouldMatch {
				if len(matches) < 2 {
					t.Fatalf("instancePattern did not match %q", tt.name)
				}
				if matches[1] != tt.host {
					t.Errorf("host = %q, want %q", matches[1], tt.host)
				}
			} else if matches != nil {
				t.Errorf("instancePattern matched %q, want no match", tt.name)
			}
		})
	}
}
