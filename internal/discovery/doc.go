// Package discovery announces and finds HTTP inspectors over mDNS.
//
// "arx-inspect serve --announce" registers the running server as an
// "_http._tcp" service named "arx-inspect-<host>", with TXT records that
// carry the build version and the active field layout. "arx-inspect browse"
// scans the local network for those instances.
//
// # Usage Example
//
//	a, err := discovery.Announce(ctx, discovery.AnnounceConfig{
//	    Port:    8080,
//	    Version: version.Version,
//	    Layout:  "canonical",
//	})
//	if err != nil {
//	    return err
//	}
//	defer a.Shutdown()
//
//	instances, err := discovery.QuickScan(ctx)
//	for _, inst := range instances {
//	    fmt.Println(inst.String(), inst.BaseURL())
//	}
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Instances must be on the same local network segment
//   - Firewall must allow mDNS (UDP port 5353)
package discovery
