package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/darmiel/cftools/internal/audit"
	"github.com/darmiel/cftools/internal/buildinfo"
	"github.com/darmiel/cftools/internal/config"
	"github.com/darmiel/cftools/pkg/auth"
	"github.com/darmiel/cftools/pkg/client"
	"github.com/darmiel/cftools/pkg/tokenstore"
)

// Factory lazily builds the objects commands share and closes them on exit.
type Factory struct {
	cfg     *config.Config
	store   auth.Store
	client  *client.Client
	manager *auth.Manager
	auditor audit.Auditor

	closers []io.Closer
}

func NewFactory() *Factory {
	return &Factory{}
}

// Config returns the effective configuration from flags, env, .env and config file.
func (f *Factory) Config() (*config.Config, error) {
	if f.cfg != nil {
		return f.cfg, nil
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	f.cfg = cfg
	return cfg, nil
}

// Store opens the configured token store.
func (f *Factory) Store(ctx context.Context) (auth.Store, error) {
	if f.store != nil {
		return f.store, nil
	}
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	store, err := tokenstore.New(ctx, cfg.Token.Config)
	if err != nil {
		return nil, fmt.Errorf("opening %s token store: %w", cfg.Token.Driver, err)
	}
	if closer, ok := store.(io.Closer); ok {
		f.closers = append(f.closers, closer)
	}
	log.Debug().Str("store", store.Location()).Msg("using token store")
	f.store = store
	return store, nil
}

// GetClient returns a client authorized by a token manager over the configured store.
func (f *Factory) GetClient(ctx context.Context) (*client.Client, *auth.Manager, error) {
	if f.client != nil {
		return f.client, f.manager, nil
	}
	cfg, err := f.Config()
	if err != nil {
		return nil, nil, err
	}
	cred := cfg.Credential()
	if err := cred.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w (set CFTOOLS_APPLICATION_ID and CFTOOLS_SECRET)", config.ErrMissingCredential)
	}
	store, err := f.Store(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []client.Option{
		client.WithTimeouts(cfg.HTTP.ConnectTimeout, cfg.HTTP.Timeout),
		client.WithUserAgent(buildinfo.UserAgent()),
		client.WithLogger(log.Logger),
		client.WithServerAPIID(cfg.ServerAPIID),
		client.WithBanlistID(cfg.BanlistID),
	}
	if cfg.Game.Configured() {
		opts = append(opts, client.WithGameServer(cfg.Game.Identifier, cfg.Game.IP, cfg.Game.Port))
	}

	cli, manager, err := client.NewAuthenticated(cfg.BaseURL, cred, store, opts,
		auth.WithStaleness(cfg.Token.Staleness),
		auth.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, nil, err
	}
	f.client, f.manager = cli, manager
	return cli, manager, nil
}

// Auditor returns the audit log, or a no-op auditor if audit.path is not set.
func (f *Factory) Auditor() (audit.Auditor, error) {
	if f.auditor != nil {
		return f.auditor, nil
	}
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	if cfg.Audit.Path == "" {
		f.auditor = audit.NewNoopAuditor()
		return f.auditor, nil
	}
	auditor, err := audit.NewFileAuditor(cfg.Audit.Path)
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, auditor)
	f.auditor = auditor
	return auditor, nil
}

// Audited runs a mutating call and records its outcome in the audit log.
// The correlation id of the request is stored with the entry.
func (f *Factory) Audited(ctx context.Context, action, target string, fn func(ctx context.Context) error) error {
	auditor, err := f.Auditor()
	if err != nil {
		return err
	}

	correlationID := client.NewCorrelationID()
	callErr := fn(client.WithCorrelationID(ctx, correlationID))

	entry := audit.Entry{
		Time:          time.Now().UTC(),
		Action:        action,
		Target:        target,
		Success:       callErr == nil,
		CorrelationID: correlationID,
	}
	if f.cfg != nil {
		entry.ServerID = f.cfg.ServerAPIID
	}
	if f.manager != nil {
		if token, ok := f.manager.Token(); ok {
			entry.Token = audit.Fingerprint(token.Value)
		}
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	if err := auditor.Log(entry); err != nil {
		log.Warn().Err(err).Msg("could not write audit log entry")
	}

	if callErr != nil {
		return logError(callErr, correlationID, fmt.Sprintf("%s failed", action))
	}
	return nil
}

// Close releases stores and audit logs opened by the factory.
func (f *Factory) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c.Close())
	}
	f.closers = nil
	return errors.Join(errs...)
}
