// pattern: Imperative Shell
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"notebench/internal/backend"
	"notebench/internal/canvas"
	"notebench/internal/config"
	"notebench/internal/events"
	"notebench/internal/instance"
	"notebench/internal/logging"
	"notebench/internal/tui"
	"notebench/internal/web"
	"notebench/internal/workspace"
)

var version = "dev"

func main() {
	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/notebench)")
	workspaceID := flag.StringP("workspace", "w", "default", "workspace to open")
	openView := flag.String("open", "", "open a view in the running instance and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("notebench %s\n", version)
		return
	}

	if *openView != "" {
		if err := openInRunningInstance(*configDir, *openView); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runTUI(*configDir, *workspaceID)
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// runTUI launches the interactive workspace.
func runTUI(configDir, workspaceID string) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Acquire single-instance lock
	fl, err := instance.Lock(dataDir)
	if err != nil {
		if url, derr := instance.Discover(dataDir); derr == nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", describeRunningInstance(url))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	defer instance.Cleanup(dataDir, fl)

	logManager, err := logging.NewManager(logging.Config{
		FilePath:       filepath.Join(dataDir, "notebench.log"),
		MaxSizeMB:      10,
		MaxBackups:     3,
		MaxAgeDays:     7,
		ChannelBufSize: 1000,
		Level:          cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("application starting", "version", version, "workspace", workspaceID)

	store, err := workspace.NewStore(dataDir)
	if err != nil {
		appLogger.Error("workspace store init failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	debounce := time.Duration(cfg.Workspace.AutosaveDebounceMS) * time.Millisecond
	workspaces := workspace.NewManager(store, workspaceID,
		canvas.ViewKind(cfg.DefaultView), debounce, logManager.For("workspace"))
	defer workspaces.Flush()

	broker := events.NewBroker()
	workspaces.SetOnChange(broker.Notify)

	model := tui.NewModel(&cfg, workspaces, logManager, logManager.Entries())
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Web server always starts (ephemeral port if not configured)
	webServer := web.New(
		web.Config{Bind: cfg.Web.Bind, Port: cfg.Web.Port},
		workspaces,
		func(msg any) { p.Send(msg) },
		broker,
		logManager,
	)
	ln, err := webServer.Listen()
	if err != nil {
		appLogger.Error("web server listen error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Write port file for tool discovery
	if err := instance.WritePort(dataDir, webServer.Addr()); err != nil {
		appLogger.Error("failed to write port file", "error", err)
	}

	webURL := fmt.Sprintf("http://%s", webServer.Addr())
	go func() {
		p.Send(events.WebListenURLMsg{URL: webURL})
	}()

	go func() {
		if err := webServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			appLogger.Error("web server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("web server shutdown error", "error", err)
		}
	}()

	// Research backend sidecar, when configured
	if cfg.Backend.Command != "" {
		supervisor := backend.NewSupervisor(backend.Config{
			Command:   cfg.Backend.Command,
			Args:      cfg.Backend.Args,
			RestartOn: backend.ParseRestartPolicy(cfg.Backend.Restart),
		}, logManager.For("backend"))

		if err := supervisor.Start(ctx); err != nil {
			appLogger.Error("backend start failed", "error", err)
		} else {
			defer func() { _ = supervisor.Stop() }()
			go watchBackendHealth(ctx, cfg.Backend.BaseURL, p)
		}
	}

	// Reload the layout when its file is rewritten outside the process
	go func() {
		if err := workspaces.Watch(ctx, func(id string) {
			p.Send(events.WorkspaceReloadedMsg{WorkspaceID: id})
		}); err != nil {
			appLogger.Warn("workspace watcher stopped", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		appLogger.Error("application exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	appLogger.Info("application stopped")
}

// openInRunningInstance submits an open-panel command to an already running
// instance's active workspace, so "notebench --open timeline" works from any
// terminal while the TUI is up elsewhere.
func openInRunningInstance(configDir, view string) error {
	kind, err := canvas.ParseViewKind(view)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	baseURL, err := instance.Discover(dataDir)
	if err != nil {
		return err
	}

	client := instance.NewClient(baseURL)
	active, _, err := client.Workspaces()
	if err != nil {
		return err
	}
	if err := client.SendCommand(active, canvas.Command{Kind: canvas.CommandOpen, View: kind}); err != nil {
		return err
	}
	fmt.Printf("opened %s in workspace %s\n", view, active)
	return nil
}

// describeRunningInstance augments the "already running" error with what the
// other instance is doing.
func describeRunningInstance(baseURL string) string {
	msg := "another notebench instance is running at " + baseURL
	client := instance.NewClient(baseURL)
	active, _, err := client.Workspaces()
	if err != nil || active == "" {
		return msg
	}
	msg += fmt.Sprintf(", workspace %q open", active)
	if tree, err := client.Layout(active); err == nil {
		msg += fmt.Sprintf(" (%d/%d panels)", canvas.CountLeaves(tree), canvas.MaxPanels)
	}
	return msg
}

// watchBackendHealth polls the backend until it answers, reporting lifecycle
// transitions to the TUI.
func watchBackendHealth(ctx context.Context, baseURL string, p *tea.Program) {
	p.Send(events.BackendStateMsg{State: "starting"})

	client := backend.NewClient(baseURL)
	readyCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if err := client.WaitReady(readyCtx, time.Second); err != nil {
		if ctx.Err() == nil {
			p.Send(events.BackendStateMsg{State: "failed", Err: err})
		}
		return
	}
	p.Send(events.BackendStateMsg{State: "ready"})
}
