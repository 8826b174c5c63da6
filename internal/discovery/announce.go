package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/logging"
)

// AnnounceConfig describes the inspector to announce
type AnnounceConfig struct {
	Port    int    // HTTP port the inspector listens on
	Host    string // Host part of the instance name; defaults to os.Hostname
	Version string // Reported in the TXT record
	Layout  string // Reported in the TXT record
	Scheme  string // "https" when the inspector serves TLS; empty means http
}

// Announcement is a running mDNS registration
type Announcement struct {
	Instance string
	Port     int
	Text     []string

	server *zeroconf.Server
	once   sync.Once
}

// InstanceName returns the instance name announced for host. Dots are
// replaced so that a fully qualified hostname stays a single DNS label.
func InstanceName(host string) string {
	host = strings.TrimSuffix(host, ".")
	host = strings.ReplaceAll(host, ".", "-")
	if host == "" {
		host = "unknown"
	}
	return InstancePrefix + host
}

// ServiceTXT returns the TXT records announced with the service. The
// scheme record is only written for schemes other than http.
func ServiceTXT(version, layout, scheme string) []string {
	txt := []string{"app=arx-inspect", "path=/"}
	if version != "" {
		txt = append(txt, "version="+version)
	}
	if layout != "" {
		txt = append(txt, "layout="+layout)
	}
	if scheme != "" && scheme != "http" {
		txt = append(txt, "scheme="+scheme)
	}
	return txt
}

// Announce registers the inspector over mDNS. The registration is removed
// when ctx is done or Shutdown is called.
func Announce(ctx context.Context, cfg AnnounceConfig) (*Announcement, error) {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	host := cfg.Host
	if host == "" {
		var err error
		host, err = os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("cannot determine hostname: %w", err)
		}
	}

	a := &Announcement{
		Instance: InstanceName(host),
		Port:     cfg.Port,
		Text:     ServiceTXT(cfg.Version, cfg.Layout, cfg.Scheme),
	}

	server, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server

	logging.Info("Announcing inspector over mDNS",
		zap.String("instance", a.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", a.Port),
	)

	go func() {
		<-ctx.Done()
		a.Shutdown()
	}()

	return a, nil
}

// Shutdown withdraws the announcement. It is safe to call more than once.
func (a *Announcement) Shutdown() {
	a.once.Do(func() {
		if a.server != nil {
			a.server.Shutdown()
			logging.Info("mDNS announcement withdrawn", zap.String("instance", a.Instance))
		}
	})
}
