package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/RyanLisse/flok/internal/auth"
	"github.com/RyanLisse/flok/internal/calendar"
	"github.com/RyanLisse/flok/internal/config"
	"github.com/RyanLisse/flok/internal/contacts"
	"github.com/RyanLisse/flok/internal/drive"
	"github.com/RyanLisse/flok/internal/graph"
	"github.com/RyanLisse/flok/internal/instrumentation"
	"github.com/RyanLisse/flok/internal/mail"
)

// ServerContext holds shared state for the MCP server: the token manager,
// per-account Graph clients, and the service clients built on top of them.
// Clients are created lazily and cached per account.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg      config.Config
	manager  *auth.Manager
	accounts *auth.Accounts
	metrics  *instrumentation.Metrics
	auditor  *instrumentation.Auditor
	logger   *slog.Logger
	readOnly bool

	mu           sync.RWMutex
	graphClients map[string]*graph.Client
	shutdown     bool
}

// Options configures a ServerContext.
type Options struct {
	Config   config.Config
	Manager  *auth.Manager
	Accounts *auth.Accounts
	Metrics  *instrumentation.Metrics
	Logger   *slog.Logger
	ReadOnly bool
}

// NewServerContext creates a server context. The manager and accounts
// resolver are required; metrics may be nil for an uninstrumented server.
func NewServerContext(ctx context.Context, opts Options) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		cfg:          opts.Config,
		manager:      opts.Manager,
		accounts:     opts.Accounts,
		metrics:      metrics,
		auditor:      instrumentation.NewAuditor(logger, metrics),
		logger:       logger,
		readOnly:     opts.ReadOnly,
		graphClients: make(map[string]*graph.Client),
	}
}

// Context returns the server's lifetime context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the server configuration.
func (sc *ServerContext) Config() config.Config {
	return sc.cfg
}

// Manager returns the token manager.
func (sc *ServerContext) Manager() *auth.Manager {
	return sc.manager
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// Auditor returns the tool invocation auditor.
func (sc *ServerContext) Auditor() *instrumentation.Auditor {
	return sc.auditor
}

// ResolveAccount resolves an account name from an explicitly supplied value,
// falling back to the environment, the saved default, and single-account
// detection.
func (sc *ServerContext) ResolveAccount(explicit string) (string, error) {
	return sc.accounts.Resolve(explicit)
}

// GraphClientForAccount returns the Graph client for an account, creating
// and caching it on first use.
func (sc *ServerContext) GraphClientForAccount(account string) *graph.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.graphClients[account]; ok {
		return client
	}

	client := graph.NewClient(sc.manager.Source(account),
		graph.WithBaseURL(sc.cfg.BaseURL()),
		graph.WithLogger(sc.logger),
		graph.WithMetrics(sc.metrics),
	)
	sc.graphClients[account] = client
	return client
}

// MailClientForAccount returns a mail client for an account.
func (sc *ServerContext) MailClientForAccount(account string) *mail.Client {
	return mail.NewClient(sc.GraphClientForAccount(account))
}

// CalendarClientForAccount returns a calendar client for an account.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	return calendar.NewClient(sc.GraphClientForAccount(account))
}

// ContactsClientForAccount returns a contacts client for an account.
func (sc *ServerContext) ContactsClientForAccount(account string) *contacts.Client {
	return contacts.NewClient(sc.GraphClientForAccount(account))
}

// DriveClientForAccount returns a drive client for an account.
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	return drive.NewClient(sc.GraphClientForAccount(account))
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()
	return nil
}
