// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/segmento/resolve/lib/apiclient"
	"github.com/segmento/resolve/lib/config"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/session"
	"github.com/segmento/resolve/lib/tui"
	"github.com/segmento/resolve/lib/version"
)

// Connection holds the flags every service-backed command shares. Embed
// it in a params struct; it implements [FlagBinder].
type Connection struct {
	ConfigPath string
	APIURL     string
}

// AddFlags registers --config and --api-url.
func (c *Connection) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ConfigPath, "config", os.Getenv("RESOLVE_CONFIG"), "path to the YAML config file")
	flagSet.StringVar(&c.APIURL, "api-url", "", "ticketing service base URL (overrides config and RESOLVE_API_URL)")
}

// Service is an opened connection: the effective configuration, the
// session store, and an API client. For [Connection.Open] it also holds
// the logged-in session.
type Service struct {
	Config *config.Config
	Store  *session.Store
	Client *apiclient.Client

	// Session is nil when the service was opened without one.
	Session *session.Session

	logger *slog.Logger
}

// User returns the logged-in user, or the zero user.
func (s *Service) User() ticket.User {
	if s.Session == nil {
		return ticket.User{}
	}
	return s.Session.User
}

// Theme returns the configured color theme.
func (s *Service) Theme() tui.Theme {
	return tui.ThemeNamed(s.Config.UI.Theme)
}

// ChatClient returns a client with the longer chat timeout. The chat
// endpoint identifies the user by the userId parameter, so the client
// carries no token.
func (s *Service) ChatClient() *apiclient.Client {
	return newClient(s.Config, "", s.Config.ChatRequestTimeout(), s.logger)
}

// Open loads the configuration and the saved session, checks that the
// session's role may perform action, and returns a client carrying the
// session token. Unless --api-url is given, the client talks to the
// service the session was created against. Nothing is sent to the
// service.
func (c *Connection) Open(logger *slog.Logger, action string) (*Service, error) {
	service, err := c.OpenAnonymous(logger)
	if err != nil {
		return nil, err
	}

	saved, err := service.Store.LoadActive(time.Now())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrExpired) {
			return nil, &ToolError{Category: CategoryForbidden, Err: err}
		}
		return nil, Internal("%w", err)
	}
	if err := Authorize(saved, action); err != nil {
		return nil, err
	}

	// The token is only good at the service that issued it.
	if c.APIURL == "" && saved.BaseURL != "" && saved.BaseURL != service.Config.API.BaseURL {
		service.Config.API.BaseURL = saved.BaseURL
		service.Client = newClient(service.Config, "", service.Config.RequestTimeout(), logger)
	}
	service.Session = saved
	service.Client.SetToken(saved.Token)
	logger.Debug("session loaded", "user", saved.User.ID, "role", saved.User.Role, "action", action)
	return service, nil
}

// OpenAnonymous is like [Connection.Open] without a session, for login,
// registration, and the logged-out chat widget.
func (c *Connection) OpenAnonymous(logger *slog.Logger) (*Service, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &Service{
		Config: cfg,
		Store:  session.NewStore(cfg.SessionFilePath()),
		Client: newClient(cfg, "", cfg.RequestTimeout(), logger),
		logger: logger,
	}, nil
}

// LoadConfig loads and validates the configuration, applying --api-url
// last.
func (c *Connection) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(c.ConfigPath)
	if err != nil {
		return nil, Validation("%w", err)
	}
	if c.APIURL != "" {
		cfg.API.BaseURL = c.APIURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Authorize fails with a forbidden error when saved's role may not
// perform action.
func Authorize(saved *session.Session, action string) error {
	if saved.Can(action) {
		return nil
	}
	return Forbidden("%s is limited to %s users (logged in as %s, %s)",
		action, ticket.AllowedRoles(action), saved.User.DisplayName(), saved.User.Role.Label())
}

func newClient(cfg *config.Config, token string, timeout time.Duration, logger *slog.Logger) *apiclient.Client {
	return apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     token,
		Timeout:   timeout,
		UserAgent: "resolve/" + version.Short(),
		Logger:    logger,
	})
}
