package discovery

import (
	"testing"
)

func TestInstance_String(t *testing.T) {
	inst := &Instance{
		Name:     "arx-inspect-workbench",
		Host:     "workbench",
		Hostname: "workbench.local.",
		IP:       "192.168.4.16",
		Port:     8080,
	}

	expected := "arx-inspect workbench (workbench.local.) at 192.168.4.16:8080"
	if inst.String() != expected {
		t.Errorf("Instance.String() = %v, want %v", inst.String(), expected)
	}
}

func TestInstance_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		instance *Instance
		expected string
	}{
		{
			name:     "default port",
			instance: &Instance{IP: "192.168.4.16", Port: 8080},
			expected: "http://192.168.4.16:8080",
		},
		{
			name:     "custom port",
			instance: &Instance{IP: "10.0.0.5", Port: 9000},
			expected: "http://10.0.0.5:9000",
		},
		{
			name:     "IPv6",
			instance: &Instance{IP: "fe80::1", Port: 8080},
			expected: "http://[fe80::1]:8080",
		},
		{
			name:     "announced https",
			instance: &Instance{IP: "10.0.0.5", Port: 8443, Metadata: map[string]string{"scheme": "https"}},
			expected: "https://10.0.0.5:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.instance.BaseURL(); got != tt.expected {
				t.Errorf("Instance.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInstance_GetMetadata(t *testing.T) {
	inst := &Instance{
		Metadata: map[string]string{
			"version": "v1.0.0",
			"layout":  "canonical",
		},
	}

	if got := inst.GetMetadata("layout"); got != "canonical" {
		t.Errorf("GetMetadata(layout) = %q, want canonical", got)
	}
	if got := inst.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}

	empty := &Instance{}
	if got := empty.GetMetadata("version"); got != "" {
		t.Errorf("GetMetadata on nil metadata = %q, want empty", got)
	}
}
