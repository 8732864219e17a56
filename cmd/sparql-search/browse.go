// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/endpoint"
	"github.com/pdiddy/sparql-search/internal/navigate"
	"github.com/pdiddy/sparql-search/internal/render"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse an endpoint interactively",
	Long: `Browse starts at the subject listing of the active endpoint (or at the
page saved in --from) and reads one command per line:

  s KEYWORD   search            n   next page       p   previous page
  o N|URI     open result N     b   back            h   home (all subjects)
  e [ID]      switch endpoint   r   refresh         save FILE
  q           quit

Every command runs a fresh query. Opening a result and going back returns
to the same page of the listing or search it was opened from.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("from", "", "start from a saved page file")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s := &session{
		catalog: a.catalog,
		out:     cmd.OutOrStdout(),
		record:  a.recordSearch,
	}

	var first navigate.Page
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		pf, err := render.ReadPageFile(from)
		if err != nil {
			return err
		}
		ep, err := a.catalog.Lookup(pf.Endpoint.ID)
		if err != nil {
			ep = endpoint.Normalize(pf.Endpoint)
			if verr := endpoint.Validate(ep); verr != nil {
				return verr
			}
		}
		s.nav, err = navigate.New(a.dial, ep, pf.Limit, a.cfg.Lang,
			navigate.WithLogger(a.logger), navigate.WithTimeout(a.actionTimeout()))
		if err != nil {
			return err
		}
		first, err = s.nav.Restore(ctx, pf.State)
		if err != nil {
			return queryFailed(s.nav, err)
		}
	} else {
		s.nav, err = a.navigator()
		if err != nil {
			return err
		}
		first, err = s.nav.Home(ctx)
		if err != nil {
			return queryFailed(s.nav, err)
		}
	}
	render.Page(s.out, first)
	return s.loop(ctx, cmd.InOrStdin())
}

// session is one interactive browse loop.
type session struct {
	nav     *navigate.Navigator
	catalog *endpoint.Catalog
	out     io.Writer
	record  func(context.Context, navigate.Page)
}

var errQuit = errors.New("quit")

func (s *session) loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		err := s.exec(ctx, scanner.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// exec runs one command line and renders the resulting page.
func (s *session) exec(ctx context.Context, line string) error {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var (
		page navigate.Page
		err  error
	)
	switch strings.ToLower(verb) {
	case "":
		return nil
	case "q", "quit", "exit":
		return errQuit
	case "?", "help":
		fmt.Fprintln(s.out, render.Controls(s.nav.Page()))
		return nil
	case "s", "search":
		if arg == "" {
			return navigate.ErrEmptyKeyword
		}
		page, err = s.nav.Search(ctx, arg)
		if err == nil && s.record != nil {
			s.record(ctx, page)
		}
	case "n", "next":
		page, err = s.nav.PageForward(ctx)
	case "p", "prev", "previous":
		page, err = s.nav.PageBack(ctx)
	case "o", "open":
		var uri string
		if uri, err = s.resolve(arg); err == nil {
			page, err = s.nav.Open(ctx, uri)
		}
	case "b", "back":
		page, err = s.nav.Back(ctx)
	case "h", "home":
		page, err = s.nav.Home(ctx)
	case "r", "refresh":
		page, err = s.nav.Refresh(ctx)
	case "e", "endpoint":
		if arg == "" {
			render.Endpoints(s.out, s.catalog.All(), s.nav.Endpoint().ID)
			return nil
		}
		return s.switchEndpoint(ctx, arg)
	case "save":
		if arg == "" {
			return errors.New("usage: save FILE")
		}
		if err := render.WritePageFile(arg, s.nav.Page(), s.nav.Limit()); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "saved %s\n", arg)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help)", verb)
	}
	if err != nil {
		return s.describe(err)
	}
	render.Page(s.out, page)
	return nil
}

func (s *session) switchEndpoint(ctx context.Context, id string) error {
	ep, err := s.catalog.Lookup(id)
	if err != nil {
		return err
	}
	prev := s.nav.Endpoint()
	page, err := s.nav.SwitchEndpoint(ctx, ep)
	if err != nil {
		return fmt.Errorf("%s; still on %s", explain(ep, err), prev.DisplayName())
	}
	render.Page(s.out, page)
	return nil
}

// resolve turns "o" arguments into a URI: a card number on the current
// page, or a URI given directly.
func (s *session) resolve(arg string) (string, error) {
	if arg == "" {
		return "", navigate.ErrEmptyURI
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return strings.Trim(arg, "<>"), nil
	}
	page := s.nav.Page()
	i := n - 1 - page.State.Offset
	if page.State.Mode == navigate.ModeEntityDetail || i < 0 || i >= len(page.Rows) {
		return "", fmt.Errorf("no result %d on this page", n)
	}
	return page.Rows[i].Subject, nil
}

func (s *session) describe(err error) error {
	switch {
	case errors.Is(err, navigate.ErrNoNextPage),
		errors.Is(err, navigate.ErrNoPreviousPage),
		errors.Is(err, navigate.ErrNotInDetail),
		errors.Is(err, navigate.ErrEmptyKeyword),
		errors.Is(err, navigate.ErrEmptyURI):
		return err
	default:
		return errors.New(explain(s.nav.Endpoint(), err))
	}
}
