// Package main is the entry point for the KPI dashboard.
// It runs the TUI by default, or the tool and HTTP surfaces as subcommands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/app"
	kpicatalog "github.com/j-veylop/kpi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/config"
	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
	"github.com/j-veylop/kpi-dashboard-tui/internal/server"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/tabs/catalog"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/tabs/chart"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/tabs/history"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/kpi-dashboard-tui/internal/ui/tabs/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/version"
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	var err error
	switch {
	case len(args) > 0 && args[0] == "tool":
		err = runTool(args[1:], os.Stdin, os.Stdout)
	case len(args) > 0 && args[0] == "describe":
		err = runDescribe(os.Stdout)
	case len(args) > 0 && args[0] == "serve":
		err = runServe()
	case len(args) > 0:
		printUsage()
		err = fmt.Errorf("unknown command %q", args[0])
	default:
		err = runTUI()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, configures the logger and starts the services.
// With logToFile the log goes to cfg.LogFile instead of stderr. The returned
// cleanup closes both.
func setup(logToFile bool) (*config.Config, *services.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logPath := ""
	if logToFile {
		logPath = cfg.LogFile
	}
	logCloser, err := logger.Setup(cfg.LogLevel, logPath)
	if err != nil {
		return nil, nil, nil, err
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cleanup := func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
		_ = logCloser.Close()
	}
	return cfg, mgr, cleanup, nil
}

// runTool calls the getKPI tool once with a JSON argument object taken from
// the command line, or from stdin when none is given, and prints the result.
func runTool(args []string, stdin io.Reader, stdout io.Writer) error {
	var raw []byte
	if len(args) > 0 {
		raw = []byte(strings.Join(args, " "))
	} else {
		var err error
		if raw, err = io.ReadAll(stdin); err != nil {
			return fmt.Errorf("failed to read arguments: %w", err)
		}
	}

	_, mgr, cleanup, err := setup(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := mgr.CallTool(ctx, raw)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runDescribe prints the tool description derived from the catalog.
// No services are started.
func runDescribe(stdout io.Writer) error {
	_, err := fmt.Fprint(stdout, kpicatalog.Default().ToolDescription())
	return err
}

// runServe runs the HTTP surface until SIGINT or SIGTERM.
func runServe() error {
	cfg, mgr, cleanup, err := setup(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := server.Routes(server.NewHandler(mgr, mgr.Catalog()))
	return server.Serve(ctx, cfg.ListenAddr, handler)
}

// runTUI runs the Bubble Tea program.
func runTUI() error {
	cfg, mgr, cleanup, err := setup(true)
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.NewModel(mgr)

	// Tabs are listed in TabID order.
	state := model.GetState()
	model.SetTabs([]app.Tab{
		query.New(state, mgr, mgr.Catalog()),
		chart.New(state, mgr.Catalog()),
		catalog.New(mgr.Catalog()),
		history.New(state, mgr),
		info.New(state, cfg, mgr.Catalog()),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`KPI Dashboard - query, chart and summarize network KPIs

Usage:
  kpidash [flags]              Run the terminal UI
  kpidash tool ['<json>']      Call the getKPI tool (arguments from stdin when omitted)
  kpidash describe             Print the getKPI tool description
  kpidash serve                Serve the HTTP API on LISTEN_ADDR

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-5             Switch between tabs (Query, Chart, Catalog, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  e / Enter       Edit the query form, Enter runs it
  Esc             Cancel the running query
  n/p             Next/previous KPI on the chart
  s               Switch chart source
  t               Cycle technology or time range
  /               Search the catalog
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  KPI_API_URL             KPI API base URL (default: http://localhost:8000)
  DATABASE_PATH           SQLite query log path
  RECORDS_PATH            JSON records file to watch and chart
  LISTEN_ADDR             HTTP listen address for serve (default: :8080)
  ALERT_CHANGE_PERCENT    Desktop alert threshold for KPI change (0 disables)
  QUERY_LOG_RETENTION     How long query log entries are kept
  LOG_LEVEL               debug, info, warn or error
  LOG_FILE                Log file used by the terminal UI

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/kpidash/.env
  - ~/.kpidash/.env`)
}
