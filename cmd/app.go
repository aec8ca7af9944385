package cmd

import (
	"fmt"
	"log/slog"

	"github.com/RyanLisse/flok/internal/auth"
	"github.com/RyanLisse/flok/internal/calendar"
	"github.com/RyanLisse/flok/internal/config"
	"github.com/RyanLisse/flok/internal/contacts"
	"github.com/RyanLisse/flok/internal/drive"
	"github.com/RyanLisse/flok/internal/format"
	"github.com/RyanLisse/flok/internal/graph"
	"github.com/RyanLisse/flok/internal/logging"
	"github.com/RyanLisse/flok/internal/mail"
)

// app bundles the dependencies CLI commands share: configuration, the token
// manager, account resolution, and the output formatter. Flags override the
// FLOK_* environment.
type app struct {
	cfg       *config.Config
	store     auth.Store
	accounts  *auth.Accounts
	manager   *auth.Manager
	formatter *format.Formatter
	logger    *slog.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagAccount != "" {
		cfg.Account = flagAccount
	}
	if flagClientID != "" {
		cfg.ClientID = flagClientID
	}
	if flagTenant != "" {
		cfg.TenantID = flagTenant
	}
	if flagReadOnly {
		cfg.ReadOnly = true
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	outFormat, err := format.Parse(flagFormat)
	if err != nil {
		return nil, err
	}

	storeDir, err := auth.DefaultStoreDir()
	if err != nil {
		return nil, fmt.Errorf("locating token store: %w", err)
	}
	store := auth.NewFileStore(storeDir)

	defaultFile, err := auth.DefaultAccountFile()
	if err != nil {
		return nil, fmt.Errorf("locating account file: %w", err)
	}
	accounts := auth.NewAccounts(store, defaultFile)

	flow := auth.NewDeviceCodeFlow(cfg.ClientID, cfg.TenantID, nil,
		auth.WithAuthority(cfg.Authority),
		auth.WithFlowLogger(logger),
	)
	manager := auth.NewManager(store, flow, auth.WithManagerLogger(logger))

	return &app{
		cfg:       cfg,
		store:     store,
		accounts:  accounts,
		manager:   manager,
		formatter: format.New(outFormat),
		logger:    logger,
	}, nil
}

// account resolves the account commands act on.
func (a *app) account() (string, error) {
	return a.accounts.Resolve(a.cfg.Account)
}

// graphClient builds a Graph client for the resolved account.
func (a *app) graphClient() (*graph.Client, error) {
	account, err := a.account()
	if err != nil {
		return nil, err
	}
	return graph.NewClient(a.manager.Source(account),
		graph.WithBaseURL(a.cfg.BaseURL()),
		graph.WithLogger(a.logger),
	), nil
}

func (a *app) mailClient() (*mail.Client, error) {
	g, err := a.graphClient()
	if err != nil {
		return nil, err
	}
	return mail.NewClient(g), nil
}

func (a *app) calendarClient() (*calendar.Client, error) {
	g, err := a.graphClient()
	if err != nil {
		return nil, err
	}
	return calendar.NewClient(g), nil
}

func (a *app) contactsClient() (*contacts.Client, error) {
	g, err := a.graphClient()
	if err != nil {
		return nil, err
	}
	return contacts.NewClient(g), nil
}

func (a *app) driveClient() (*drive.Client, error) {
	g, err := a.graphClient()
	if err != nil {
		return nil, err
	}
	return drive.NewClient(g), nil
}

// requireWritable fails when the process runs read-only.
func (a *app) requireWritable(operation string) error {
	if a.cfg.ReadOnly {
		return fmt.Errorf("read-only mode: %s is disabled", operation)
	}
	return nil
}
