package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/prompts"
	"github.com/RyanLisse/flok/internal/resources"
	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/calendar_tools"
	"github.com/RyanLisse/flok/internal/tools/contact_tools"
	"github.com/RyanLisse/flok/internal/tools/drive_tools"
	"github.com/RyanLisse/flok/internal/tools/graph_tools"
	"github.com/RyanLisse/flok/internal/tools/mail_tools"
)

func newServeCmd() *cobra.Command {
	var (
		transport      string
		httpAddr       string
		yolo           bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Microsoft 365
mail, calendar, contacts, and OneDrive tools to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default the server runs read-only, exposing only safe operations.
  Use --yolo to enable write operations (sending mail, deleting events, etc.)

Accounts must be signed in beforehand with "flok auth login"; the server
reads tokens from the local store and refreshes them as needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(transport, httpAddr, yolo, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (sending mail, deleting items, etc.). Default is read-only mode.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the Prometheus metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
	return cmd
}

func runServe(transport, httpAddr string, yolo, metricsEnabled bool, metricsAddr string) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if addr := os.Getenv("METRICS_ADDR"); addr != "" && metricsAddr == server.DefaultMetricsAddr {
		metricsAddr = addr
	}
	if os.Getenv("METRICS_ENABLED") == "false" {
		metricsEnabled = false
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	readOnly := !yolo || app.cfg.ReadOnly

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("creating instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil && transport != "stdio" {
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	// The manager is built before the provider exists, so the token
	// lifecycle metrics are bound here.
	app.manager.SetMetrics(provider.Metrics())

	serverContext := server.NewServerContext(shutdownCtx, server.Options{
		Config:   *app.cfg,
		Manager:  app.manager,
		Accounts: app.accounts,
		Metrics:  provider.Metrics(),
		Logger:   app.logger,
		ReadOnly: readOnly,
	})
	defer func() {
		if err := serverContext.Shutdown(); err != nil && transport != "stdio" {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	health := server.NewHealthChecker(serverContext)
	health.SetReady(false)

	// Prometheus metrics stay off the MCP transport, on their own port.
	// stdio servers skip it since they are short-lived per-client processes.
	if transport != "stdio" && metricsEnabled && provider.Enabled() && provider.UsesPrometheus() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: provider,
			Health:                  health,
		})
		if err != nil {
			return fmt.Errorf("creating metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server stopped with error: %v", err)
			}
		}()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}()
	}

	serverOpts := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	}

	// HTTP transports serve several concurrent clients, so sessions are
	// tracked per connection and surfaced as an active-session gauge.
	if transport == "streamable-http" {
		sessions := server.NewSessionAccounts(app.logger)
		sessions.SetMetrics(provider.Metrics())
		defer sessions.Close()

		hooks := &mcpserver.Hooks{}
		hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
			sessions.Set(session.SessionID(), app.cfg.Account)
		})
		hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
			sessions.Remove(session.SessionID())
		})
		serverOpts = append(serverOpts, mcpserver.WithHooks(hooks))
	}

	mcpSrv := mcpserver.NewMCPServer("flok", version, serverOpts...)

	if transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	if err := registerAll(mcpSrv, serverContext); err != nil {
		return err
	}
	health.SetReady(true)

	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

// registerAll wires every tool, resource, and prompt onto the MCP server.
func registerAll(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	registrations := []struct {
		name     string
		register func() error
	}{
		{"Mail", func() error { return mail_tools.RegisterMailTools(mcpSrv, sc) }},
		{"Calendar", func() error { return calendar_tools.RegisterCalendarTools(mcpSrv, sc) }},
		{"Contacts", func() error { return contact_tools.RegisterContactTools(mcpSrv, sc) }},
		{"Drive", func() error { return drive_tools.RegisterDriveTools(mcpSrv, sc) }},
		{"Graph API", func() error { return graph_tools.RegisterGraphTools(mcpSrv, sc) }},
		{"Resources", func() error { return resources.RegisterResources(mcpSrv, sc) }},
		{"Prompts", func() error { return prompts.RegisterPrompts(mcpSrv) }},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}
	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	if err := <-serverDone; err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv)

	fmt.Printf("Streamable HTTP server starting on %s\n", addr)
	fmt.Printf("  MCP endpoint: /mcp\n")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer stopCancel()
		if err := httpServer.Shutdown(stopCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
