// Package config provides user configuration management for arx-inspect.
//
// This package manages a YAML-based configuration file that stores the
// user's preferred packet layout and output format, HTTP inspector settings,
// and extra model codes layered over the built-in ARX.AT model table. The
// configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/arxinspect/config.yaml or $HOME/.config/arxinspect/config.yaml
//   - macOS: $HOME/.config/arxinspect/config.yaml
//   - Windows: %LOCALAPPDATA%\arxinspect\config.yaml
//
// A different file can be used with LoadFrom and SaveTo (the --config flag).
//
// # File Format
//
//	version: 1
//	preferences:
//	  layout: canonical      # or advertising
//	  format: table          # table, compact or json
//	  listen: ":8080"
//	  announce: false
//	models:
//	  "0x52":
//	    name: ARX.AT207
//	    unit: "℃"
//
// # Usage Example
//
//	registry, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table, err := packet.DecodeWith(input, packet.Options{
//	    Layout: registry.Layout(),
//	    Models: registry.ModelTable(),
//	})
//
// # Thread Safety
//
// File writes are protected by a mutex and are atomic (temporary file plus
// rename). A Registry value itself is not safe for concurrent mutation.
package config
