// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/sparql-search/internal/endpoint"
	"github.com/pdiddy/sparql-search/internal/navigate"
	"github.com/pdiddy/sparql-search/internal/search"
	"github.com/pdiddy/sparql-search/internal/secrets"
	"github.com/pdiddy/sparql-search/internal/store"
	"github.com/pdiddy/sparql-search/pkg/types"
)

// app bundles what a command needs: configuration, the endpoint catalog,
// the local store and credentials.
type app struct {
	cfg     types.AppConfig
	catalog *endpoint.Catalog
	store   *store.Store
	secrets secrets.Secrets
	logger  *slog.Logger
}

// openApp opens the local store and layers the endpoint catalog from the
// built-in list, the config file and the store.
func openApp(ctx context.Context) (*app, error) {
	st, err := store.NewStore(appCfg.Store())
	if err != nil {
		return nil, err
	}
	custom, err := st.ListEndpoints(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	builtin, err := endpoint.Builtin()
	if err != nil {
		st.Close()
		return nil, err
	}
	cat, err := endpoint.New(builtin, appCfg.Endpoints, custom)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &app{
		cfg:     appCfg,
		catalog: cat,
		store:   st,
		secrets: loadedSecrets,
		logger:  slog.Default(),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// client returns a query client for ep, with basic auth when credentials
// for it were loaded.
func (a *app) client(ep types.Endpoint) *search.Client {
	opts := []search.Option{search.WithLogger(a.logger)}
	if user, pass, ok := a.secrets.Credentials(ep.ID); ok {
		opts = append(opts, search.WithCredentials(user, pass))
	}
	return search.NewClient(ep, a.cfg.Search(), opts...)
}

func (a *app) dial(ep types.Endpoint) navigate.Executor {
	return a.client(ep)
}

// active returns the configured endpoint.
func (a *app) active() (types.Endpoint, error) {
	return a.catalog.Lookup(a.cfg.Endpoint)
}

// actionTimeout bounds one navigation action. An entity view runs two
// queries, each under the configured query timeout.
func (a *app) actionTimeout() time.Duration {
	return 2 * a.cfg.Search().Timeout
}

func (a *app) navigator() (*navigate.Navigator, error) {
	ep, err := a.active()
	if err != nil {
		return nil, err
	}
	return navigate.New(a.dial, ep, a.cfg.PageSize, a.cfg.Lang,
		navigate.WithLogger(a.logger), navigate.WithTimeout(a.actionTimeout()))
}

// recordSearch adds a search page to the history. Failures are logged
// and otherwise ignored; history is a convenience.
func (a *app) recordSearch(ctx context.Context, p navigate.Page) {
	if p.State.Mode != navigate.ModeKeywordSearch {
		return
	}
	_, err := a.store.RecordSearch(ctx, types.SearchRecord{
		EndpointID: p.Endpoint.ID,
		Keyword:    p.State.Keyword,
		Offset:     p.State.Offset,
		Rows:       len(p.Rows),
	})
	if err != nil {
		a.logger.Warn("could not record search", "error", err)
	}
}

// explain turns a query failure into a one-line message for the user.
func explain(ep types.Endpoint, err error) string {
	name := ep.DisplayName()
	switch {
	case errors.Is(err, search.ErrEndpointUnreachable):
		return fmt.Sprintf("%s is unreachable: %v", name, err)
	case errors.Is(err, search.ErrQueryTimeout):
		return fmt.Sprintf("%s did not answer in time", name)
	case errors.Is(err, search.ErrQueryRejected):
		return fmt.Sprintf("%s rejected the query: %v", name, err)
	case errors.Is(err, search.ErrMalformedResponse):
		return fmt.Sprintf("%s sent a response that could not be read: %v", name, err)
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
