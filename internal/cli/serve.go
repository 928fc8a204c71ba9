package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/degreetree/internal/server"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/session"
	"github.com/matzehuels/degreetree/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		imports    []string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve trees, layouts and camera sessions over HTTP",
		Long: `Serve trees, layouts and camera sessions over HTTP.

Trees come from the configured store; --import adds tree files to it before
the server starts. Sessions hold one camera each and live in the configured
session backend until they expire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("session-ttl") {
				sessionTTL = c.cfg.Server.SessionTTL.Duration
			}
			return c.runServe(cmd.Context(), addr, sessionTTL, imports, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", session.DefaultTTL, "idle time before a session expires")
	cmd.Flags().StringSliceVar(&imports, "import", nil, "tree files to store before serving (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout and render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, sessionTTL time.Duration, imports []string, noCache bool) error {
	trees, err := store.Open(ctx, c.cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("open tree store: %w", err)
	}
	defer trees.Close(context.WithoutCancel(ctx))

	sessions, err := session.Open(ctx, c.cfg.SessionOptions())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()

	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	runner.Store = trees
	runner.LayoutTTL = c.cfg.Cache.TTL.Duration
	defer runner.Close()

	for _, path := range imports {
		id, err := importTree(ctx, trees, path)
		if err != nil {
			return err
		}
		printSuccess("Imported %s as %s", path, id)
	}

	srv := server.New(server.Config{
		Addr:       addr,
		Trees:      trees,
		Sessions:   sessions,
		Runner:     runner,
		Camera:     c.cfg.CameraConfig(),
		SessionTTL: sessionTTL,
		Logger:     c.Logger,
	})

	printInfo("Listening on %s", addr)
	printDetail("store: %s  sessions: %s  cache: %s",
		c.cfg.Store.Backend, c.cfg.Session.Backend, c.cfg.Cache.Backend)
	return srv.ListenAndServe(ctx)
}

// importTree stores the tree file at path. A document without an ID is
// stored under the file's base name.
func importTree(ctx context.Context, st store.Store, path string) (string, error) {
	doc, err := graph.ReadTreeFile(path)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", path, err)
	}
	if err := apperrors.ValidateTreeID(doc.ID); err != nil {
		return "", fmt.Errorf("import %s: %w", path, err)
	}
	if err := st.Put(ctx, doc); err != nil {
		return "", fmt.Errorf("import %s: %w", path, err)
	}
	return doc.ID, nil
}
