package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/coi-exe/qrforge/internal/cli"
	"github.com/coi-exe/qrforge/internal/clipboard"
	"github.com/coi-exe/qrforge/internal/config"
	"github.com/coi-exe/qrforge/internal/coordinator"
	"github.com/coi-exe/qrforge/internal/executor"
	"github.com/coi-exe/qrforge/internal/form"
	"github.com/coi-exe/qrforge/internal/keybinds"
	"github.com/coi-exe/qrforge/internal/logger"
	"github.com/coi-exe/qrforge/internal/mock"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/output"
	"github.com/coi-exe/qrforge/internal/session"
	"github.com/coi-exe/qrforge/internal/toast"
	"github.com/coi-exe/qrforge/internal/tui"
	"github.com/coi-exe/qrforge/internal/types"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qrforge",
	Short: "qrforge - QR code generator",
	Long: `qrforge builds QR codes for URLs, free text, WiFi credentials and contact
cards through a rendering service.

Run without arguments to start the interactive TUI, or use "generate" for
scripts.

Examples:
  qrforge                                        # Start interactive TUI
  qrforge generate -f url=https://example.com    # Print the encoded result
  qrforge generate -m wifi -f ssid=Home --save   # Save qrforge.png
  qrforge generate -m text -f text=hi -o json -q dataString
  qrforge serve --addr localhost:5000            # Run the reference backend`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a QR code without the TUI",
	Long: `Generate a QR code from flags.

Required fields that are missing are asked for when stdin is a terminal.
Fields per mode:
  url    url
  text   text
  wifi   ssid, password, encryption (WPA, WEP, nopass)
  vcard  first, last, phone, email, url`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference rendering backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage TUI key bindings",
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the default key bindings (stdout when no path is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := keybinds.ExportDefaults()
		if len(args) == 0 {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}
		if err := keybinds.SaveConfig(cfg, args[0]); err != nil {
			return fmt.Errorf("failed to write key bindings: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Key bindings written to %s\n", args[0])
		return nil
	},
}

var keybindsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the user key bindings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		path := config.GetKeybindsFilePath()
		if _, err := keybinds.LoadOrDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List rendering backend profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		active := a.mgr.GetActiveProfile().Name
		for _, p := range a.mgr.GetProfiles() {
			marker := " "
			if p.Name == active {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-16s %s\n", marker, p.Name, p.BaseURL)
		}
		return nil
	},
}

var profilesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Select the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		defer a.close()
		return a.mgr.SetActiveProfile(args[0])
	},
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <name> <base-url>",
	Short: "Add a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		p := types.Profile{Name: args[0], BaseURL: args[1], Timeout: flagProfileTimeout}
		// Reject unusable URLs and timeouts before saving
		if _, err := executor.NewClientFromProfile(&p); err != nil {
			return err
		}
		return a.mgr.AddProfile(p)
	},
}

// Global flags
var (
	flagProfile  string
	flagURL      string
	flagLogLevel string
)

// Flags for generate
var (
	flagMode     string
	flagFields   []string
	flagEC       string
	flagSize     int
	flagMargin   int
	flagFg       string
	flagBg       string
	flagSave     bool
	flagOutDir   string
	flagCopy     bool
	flagCopyText bool
	flagOutput   string
	flagQuery    string
)

// Flags for serve
var (
	flagAddr        string
	flagServeConfig string
	flagDelay       int
)

var flagProfileTimeout string

func init() {
	defaults := types.DefaultRenderOptions()

	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile to use")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Rendering service base URL (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	generateCmd.Flags().StringVarP(&flagMode, "mode", "m", "", "Mode: url, text, wifi, vcard (default: last used)")
	generateCmd.Flags().StringArrayVarP(&flagFields, "field", "f", []string{}, "Set field (name=value), can be repeated")
	generateCmd.Flags().StringVar(&flagEC, "ec", string(defaults.ErrorCorrection), "Error correction level (L/M/Q/H)")
	generateCmd.Flags().IntVar(&flagSize, "size", defaults.Size, "Pixels per module (1-20)")
	generateCmd.Flags().IntVar(&flagMargin, "margin", defaults.Margin, "Quiet zone in modules (0-10)")
	generateCmd.Flags().StringVar(&flagFg, "fg", defaults.FgColor, "Foreground color (#rrggbb)")
	generateCmd.Flags().StringVar(&flagBg, "bg", defaults.BgColor, "Background color (#rrggbb)")
	generateCmd.Flags().BoolVar(&flagSave, "save", false, "Download qrforge.png")
	generateCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "Directory for --save (default: settings outputDir)")
	generateCmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the image to the clipboard")
	generateCmd.Flags().BoolVar(&flagCopyText, "copy-text", false, "Copy the encoded data string to the clipboard")
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/json/yaml)")
	generateCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(command) over the JSON result")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default localhost:5000)")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Backend config file (.yaml/.yml/.json)")
	serveCmd.Flags().IntVar(&flagDelay, "delay", 0, "Artificial latency in milliseconds")

	profilesAddCmd.Flags().StringVar(&flagProfileTimeout, "timeout", "", "Request timeout (Go duration, e.g. 10s)")

	keybindsCmd.AddCommand(keybindsExportCmd)
	keybindsCmd.AddCommand(keybindsCheckCmd)
	profilesCmd.AddCommand(profilesUseCmd)
	profilesCmd.AddCommand(profilesAddCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(profilesCmd)
}

// app holds the state shared by the commands
type app struct {
	settings config.Settings
	mgr      *session.Manager
	logFile  *os.File
}

// loadApp initializes config, settings, logging and the session. The TUI
// owns the terminal, so it logs to a file.
func loadApp(logToFile bool) (*app, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := config.LoadSettings(config.GetSettingsFilePath())
	if err != nil {
		return nil, err
	}

	levelName := settings.LogLevel
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	a := &app{settings: settings}
	if logToFile {
		f, err := logger.SetupFile(level, config.LogFile)
		if err != nil {
			return nil, err
		}
		a.logFile = f
	} else {
		logger.Setup(level, os.Stderr)
	}

	a.mgr = session.NewManager()
	if err := a.mgr.Load(); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if flagProfile != "" {
		if err := a.mgr.SetActiveProfile(flagProfile); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to set profile: %w", err)
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// client builds the rendering service client from the active profile
func (a *app) client() (*executor.Client, error) {
	profile := *a.mgr.GetActiveProfile()
	if flagURL != "" {
		profile.BaseURL = flagURL
	}
	slog.Debug("using rendering service", "profile", profile.Name, "baseUrl", profile.BaseURL)
	return executor.NewClientFromProfile(&profile)
}

// runTUI starts the interactive TUI
func runTUI() error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.client()
	if err != nil {
		return err
	}

	kb, err := keybinds.LoadOrDefault(config.GetKeybindsFilePath())
	if err != nil {
		return err
	}

	reg := modes.NewDefaultRegistry()
	sys := clipboard.NewSystem()
	coord := coordinator.New(coordinator.Config{
		Registry: reg,
		Form:     form.New(reg, a.mgr.LastMode(types.ModeURL), a.settings.Defaults),
		Renderer: client,
		Saver:    output.NewSaver(a.settings.OutputDir),
		Images:   sys,
		Text:     sys,
		Toasts:   toast.NewStack(a.settings.ToastDuration),
		Logger:   slog.Default(),
	})

	return tui.Run(tui.Options{
		Coordinator: coord,
		Keybinds:    kb,
		Session:     a.mgr,
		Fetcher:     client,
		Version:     version,
		Logger:      slog.Default(),
	})
}

// runGenerate runs a headless generation
func runGenerate(cmd *cobra.Command) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.client()
	if err != nil {
		return err
	}

	// Settings provide the defaults, explicit flags win
	render := a.settings.Defaults
	flags := cmd.Flags()
	if flags.Changed("ec") {
		ec, err := types.ParseErrorCorrection(flagEC)
		if err != nil {
			return err
		}
		render.ErrorCorrection = ec
	}
	if flags.Changed("size") {
		render.Size = flagSize
	}
	if flags.Changed("margin") {
		render.Margin = flagMargin
	}
	if flags.Changed("fg") {
		render.FgColor = flagFg
	}
	if flags.Changed("bg") {
		render.BgColor = flagBg
	}

	mode := flagMode
	if mode == "" {
		mode = string(a.mgr.LastMode(types.ModeURL))
	}
	outDir := flagOutDir
	if outDir == "" {
		outDir = a.settings.OutputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sys := clipboard.NewSystem()
	runner := &cli.Runner{
		Renderer: client,
		Images:   sys,
		Text:     sys,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Logger:   slog.Default(),
	}
	return runner.Generate(ctx, cli.GenerateOptions{
		Mode:      mode,
		Fields:    flagFields,
		Render:    render,
		Save:      flagSave,
		OutputDir: outDir,
		Copy:      flagCopy,
		CopyText:  flagCopyText,
		Output:    flagOutput,
		Query:     flagQuery,
		Prompt:    cli.IsInteractive(),
		Color:     cli.IsTerminalOutput(),
	})
}

// runServe runs the reference backend until interrupted
func runServe(cmd *cobra.Command) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := mock.DefaultConfig()
	if flagServeConfig != "" {
		cfg, err = mock.LoadConfig(flagServeConfig)
		if err != nil {
			return err
		}
	}
	if flagAddr != "" {
		host, port, err := net.SplitHostPort(flagAddr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", flagAddr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in --addr %q", flagAddr)
		}
		cfg.Host, cfg.Port = host, p
	}
	if cmd.Flags().Changed("delay") {
		cfg.Delay = flagDelay
	}

	server := mock.NewServer(cfg)
	if err := server.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendering backend listening on %s (ctrl+c to stop)\n", server.Address())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logs := server.GetLogs()
	if err := server.Stop(); err != nil {
		return fmt.Errorf("failed to stop backend: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Served %d request(s)\n", len(logs))
	return nil
}
