package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/accounts"
	"github.com/dmitrijs2005/recipekeeper/internal/config"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/dmitrijs2005/recipekeeper/internal/metrics"
	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
	"github.com/dmitrijs2005/recipekeeper/internal/session"
	"golang.org/x/term"
)

type App struct {
	dir     *accounts.Directory
	logger  logging.Logger
	metrics *metrics.Recorder
	secret  []byte
	ttl     time.Duration

	reader *bufio.Reader
	out    io.Writer
	ttyFd  int

	session *session.Session
}

// NewApp builds the account directory from c, seeds it with the bootstrap
// admin and wires console I/O. Extra directory options are applied after
// the ones derived from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer, opts ...accounts.Option) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	policy, err := recipes.ParseIDPolicy(c.RecipeIDPolicy)
	if err != nil {
		return nil, err
	}
	secret, err := c.Secret()
	if err != nil {
		return nil, err
	}

	dirOpts := append([]accounts.Option{
		accounts.WithIDPolicy(policy),
		accounts.WithLogger(logger),
	}, opts...)
	dir := accounts.NewDirectory(dirOpts...)

	if _, err := dir.Bootstrap(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	return &App{
		dir:     dir,
		logger:  logger,
		metrics: metrics.NewRecorder(),
		secret:  secret,
		ttl:     c.SessionTTL,
		reader:  bufio.NewReader(in),
		out:     out,
		ttyFd:   terminalFd(in),
	}, nil
}

// terminalFd returns the descriptor of in when it is an interactive
// terminal, noTerminal otherwise.
func terminalFd(in io.Reader) int {
	f, ok := in.(*os.File)
	if !ok {
		return noTerminal
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return noTerminal
	}
	return fd
}

// Run shows the startup menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.logStats(ctx)
	a.logger.Info(ctx, "recipekeeper started", "accounts", a.dir.Len())
	return runStartup(ctx, a, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) logStats(ctx context.Context) {
	snap, err := a.metrics.Snapshot()
	if err != nil {
		a.logger.Error(ctx, "collect statistics", "error", err)
		return
	}
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, snap[k])
	}
	a.logger.Info(ctx, "session statistics", args...)
}
