package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/arxinspect/internal/config"
	"github.com/muurk/arxinspect/internal/discovery"
	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
	"github.com/muurk/arxinspect/internal/remote"
	"github.com/muurk/arxinspect/internal/server"
	"github.com/muurk/arxinspect/internal/ui"
	"github.com/muurk/arxinspect/internal/version"
)

// Command flags
var (
	outputFormat string
	layoutName   string
	listenAddr   string
	announce     bool
	certPath     string
	keyPath      string
	captureDir   string
	scanTimeout  int
	remoteURL    string
	checkFound   bool
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(fieldsCmd)
}

// decodeCmd decodes packets given as arguments or on stdin
var decodeCmd = &cobra.Command{
	Use:   "decode [hex...]",
	Short: "Decode a packet and print its fields",
	Long: `Decode a raw advertising packet and print every field.

Arguments are joined into a single packet, so a packet may be pasted with
spaces between its bytes. With no arguments, or "-", packets are read from
stdin, one per line.`,
	Example: `  # Decode a packet
  arx-inspect decode 0x1a0102030050000000000f2c010000

  # Packet captured with its advertising preamble
  arx-inspect decode --layout advertising 0x0201061a01020300500000

  # Decode a capture file for scripting
  cut -d' ' -f2 packets.txt | arx-inspect decode --format json

  # Decode on an inspector found with 'arx-inspect browse'
  arx-inspect decode --remote http://192.168.1.20:8080 0x1a0102030050`,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (table, compact, json); default from config")
	decodeCmd.Flags().StringVar(&layoutName, "layout", "", "Field layout (canonical, advertising); default from config")
	decodeCmd.Flags().StringVar(&remoteURL, "remote", "", "Decode on the HTTP inspector at this URL instead of locally")
}

func runDecode(cmd *cobra.Command, args []string) error {
	format := outputFormat
	if format == "" {
		format = preferredFormat()
	}
	if err := config.ValidateFormat(format); err != nil {
		return err
	}

	opts, err := decodeOptions(layoutName)
	if err != nil {
		return err
	}

	inputs, err := decodeInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no packet given")
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	errOut := ui.NewPrinter(cmd.ErrOrStderr())

	decode := localDecoder(opts)
	if remoteURL != "" {
		decode = remoteDecoder(remote.NewClientWithURL(remoteURL), layoutName)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var responses []server.DecodeResponse
	failed := false
	for i, raw := range inputs {
		t, byteCount, err := decode(ctx, raw)
		if err != nil {
			if !packet.IsMalformed(err) && !remote.IsDecodeError(err) {
				return err
			}
			errOut.PrintError(err)
			failed = true
			continue
		}

		switch format {
		case config.FormatJSON:
			responses = append(responses, server.NewDecodeResponse(t, byteCount))
		case config.FormatCompact:
			if i > 0 {
				out.Newline()
			}
			out.PrintCompact(t)
		default:
			if i > 0 {
				out.Newline()
			}
			out.PrintTable(t)
		}
	}

	if format == config.FormatJSON && len(responses) > 0 {
		var v any = responses
		if len(inputs) == 1 {
			v = responses[0]
		}
		if err := out.PrintJSON(v); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	}

	if failed {
		return errReported
	}
	return nil
}

// decodeInputs returns the packets to decode: the joined arguments, or
// the non-blank lines of stdin when there are none or the only one is "-".
func decodeInputs(stdin io.Reader, args []string) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return []string{strings.Join(args, " ")}, nil
	}

	var inputs []string
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return inputs, nil
}

// decoder decodes one hex packet and reports its byte count
type decoder func(ctx context.Context, raw string) (packet.Table, int, error)

func localDecoder(opts packet.Options) decoder {
	return func(_ context.Context, raw string) (packet.Table, int, error) {
		data, err := packet.Normalize(raw)
		logging.LogDecode("cli", raw, len(data), err)
		if err != nil {
			return nil, 0, err
		}
		return packet.DecodeBytesWith(data, opts), len(data), nil
	}
}

// remoteDecoder sends packets to the HTTP inspector behind client
func remoteDecoder(client *remote.Client, layout string) decoder {
	return func(ctx context.Context, raw string) (packet.Table, int, error) {
		resp, err := client.Decode(ctx, raw, layout)
		if err != nil {
			return nil, 0, err
		}
		return packet.Table(resp.Fields), resp.Bytes, nil
	}
}

func preferredFormat() string {
	if registry.Preferences == nil || registry.Preferences.Format == "" {
		return config.FormatTable
	}
	return registry.Preferences.Format
}

// serveCmd starts the HTTP inspector
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP packet inspector",
	Long: `Start the HTTP packet inspector.

The server offers a web page with the same table as the terminal inspector,
a JSON API at /api/decode and a WebSocket at /ws that decodes every message
it receives. With --announce the server is registered over mDNS so that
'arx-inspect browse' finds it from other machines.

To keep every submitted packet for later analysis, use --capture-dir to
name a directory where JSON Lines capture files will be written.`,
	Example: `  # Serve on the configured address (default :8080)
  arx-inspect serve

  # Serve on another port and announce over mDNS
  arx-inspect serve --listen :9000 --announce

  # Serve HTTPS and keep a capture of every packet
  arx-inspect serve --tls-cert cert.pem --tls-key key.pem --capture-dir ./captures`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&announce, "announce", false, "Announce the inspector over mDNS")
	serveCmd.Flags().StringVar(&certPath, "tls-cert", "", "Path to TLS certificate file (enables HTTPS with --tls-key)")
	serveCmd.Flags().StringVar(&keyPath, "tls-key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&captureDir, "capture-dir", "", "Directory to write packet captures (disabled if not specified)")
	serveCmd.Flags().StringVar(&layoutName, "layout", "", "Field layout (canonical, advertising); default from config")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Validate: Either both cert and key are provided, or neither
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --tls-cert and --tls-key must be provided together")
	}

	opts, err := decodeOptions(layoutName)
	if err != nil {
		return err
	}

	listen := listenAddr
	if listen == "" && registry.Preferences != nil {
		listen = registry.Preferences.Listen
	}
	if !cmd.Flags().Changed("announce") && registry.Preferences != nil {
		announce = registry.Preferences.Announce
	}

	srv, err := server.New(&server.Config{
		Listen:     listen,
		Options:    opts,
		CertPath:   certPath,
		KeyPath:    keyPath,
		CaptureDir: captureDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	scheme := "http"
	if certPath != "" {
		scheme = "https"
	}
	params := map[string]string{
		"Listen": srv.Addr().String(),
		"Scheme": scheme,
		"Layout": opts.Layout.Name,
	}
	if captureDir != "" {
		params["Capture"] = captureDir
	}

	ctx := cmd.Context()
	if announce {
		a, err := discovery.Announce(ctx, discovery.AnnounceConfig{
			Port:    srv.Port(),
			Version: version.Version,
			Layout:  opts.Layout.Name,
			Scheme:  scheme,
		})
		if err != nil {
			return fmt.Errorf("failed to announce: %w", err)
		}
		defer a.Shutdown()
		params["mDNS"] = a.Instance
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.PrintHeader("ARX.AT Packet Inspector", "serve", params)

	return srv.Start(ctx)
}

// browseCmd finds announced inspectors on the network
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Find HTTP inspectors on the network",
	Long:  `Find HTTP inspectors announced over mDNS with 'arx-inspect serve --announce'.`,
	Example: `  # Scan for 5 seconds (default)
  arx-inspect browse

  # Longer scan for busy networks
  arx-inspect browse --timeout 15

  # Confirm each inspector answers
  arx-inspect browse --check`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
	browseCmd.Flags().BoolVar(&checkFound, "check", false, "Query each inspector found for its version")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for inspectors (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second
	instances, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(instances) == 0 {
		fmt.Fprintln(out, "No inspectors found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Start the server with 'arx-inspect serve --announce'")
		fmt.Fprintln(out, "  - Check that both machines are on the same network segment")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Fprintf(out, "Found %d inspector(s):\n\n", len(instances))
	for i, inst := range instances {
		fmt.Fprintf(out, "%d. %s\n", i+1, inst.Name)
		fmt.Fprintf(out, "   URL:     %s\n", inst.BaseURL())
		if v := inst.GetMetadata("version"); v != "" {
			fmt.Fprintf(out, "   Version: %s\n", v)
		}
		if l := inst.GetMetadata("layout"); l != "" {
			fmt.Fprintf(out, "   Layout:  %s\n", l)
		}
		if checkFound {
			client := remote.NewClientWithURL(inst.BaseURL())
			client.SetTimeout(2 * time.Second)
			client.SetRetry(0, 0)
			if info, err := client.Ping(cmd.Context()); err != nil {
				fmt.Fprintf(out, "   Status:  unreachable (%v)\n", err)
			} else {
				fmt.Fprintf(out, "   Status:  reachable (%s, %s)\n", info.Version, info.Platform)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

// modelsCmd lists and edits the model table
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known sensor models",
	Long: `List the model table: built-in models merged with the models defined in
the config file. Use 'models set' and 'models remove' to edit the config.`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

var modelsSetCmd = &cobra.Command{
	Use:   "set <code> <name> [unit]",
	Short: "Add or rename a model code",
	Example: `  # Add a pressure sensor
  arx-inspect models set 0x90 ARX.AP100 kPa`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runModelsSet,
}

var modelsRemoveCmd = &cobra.Command{
	Use:   "remove <code>",
	Short: "Remove a model code from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsRemove,
}

func init() {
	modelsCmd.AddCommand(modelsSetCmd)
	modelsCmd.AddCommand(modelsRemoveCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	custom := registry.ModelTable()
	table := packet.BuiltinModels().Merge(custom)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-6s %-12s %-6s %s\n", "CODE", "NAME", "UNIT", "SOURCE")
	for _, code := range config.SortedModelCodes(table) {
		m := table[code]
		source := "built-in"
		if _, ok := custom[code]; ok {
			source = "config"
		}
		fmt.Fprintf(out, "%-6s %-12s %-6s %s\n", config.FormatModelCode(code), m.Name, m.Unit, source)
	}
	return nil
}

func runModelsSet(cmd *cobra.Command, args []string) error {
	code, err := config.ParseModelCode(args[0])
	if err != nil {
		return err
	}
	var unit string
	if len(args) == 3 {
		unit = args[2]
	}

	registry.SetModel(code, args[1], unit)
	if err := saveRegistry(); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Model saved", map[string]string{
		"Code": config.FormatModelCode(code),
		"Name": args[1],
		"Unit": unit,
	})
	return nil
}

func runModelsRemove(cmd *cobra.Command, args []string) error {
	code, err := config.ParseModelCode(args[0])
	if err != nil {
		return err
	}
	if !registry.RemoveModel(code) {
		return fmt.Errorf("model %s is not defined in the config file", config.FormatModelCode(code))
	}
	if err := saveRegistry(); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Model removed", map[string]string{
		"Code": config.FormatModelCode(code),
	})
	return nil
}

func saveRegistry() error {
	if configPath != "" {
		return registry.SaveTo(configPath)
	}
	return registry.Save()
}

// fieldsCmd prints the canonical field layout
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the packet fields and their byte ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s %-7s %s\n", "FIELD", "BYTES", "KIND")
		for _, spec := range packet.Fields() {
			fmt.Fprintf(out, "%-12s %-7s %s\n", spec.Name, fmt.Sprintf("%d-%d", spec.Start, spec.End-1), spec.Kind)
		}
		return nil
	},
}
