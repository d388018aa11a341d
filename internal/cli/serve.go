package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skijump/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard upload page over HTTP",
		Long: `Serve the leaderboard upload page over HTTP.

The index page shows the demo leaderboard with an upload form; uploading a
CSV or XLSX file renders it with the chosen options. Render defaults, the
cache backend and the upload size limit come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, cfg.Render.Options(), c.Logger)
			if cfg.Server.MaxUploadMB > 0 {
				srv.MaxUploadBytes = int64(cfg.Server.MaxUploadMB) << 20
			}

			printKeyValue("Address", "http://"+displayAddr(cfg.Server.Addr))
			printKeyValue("Cache", cacheLabel(cfg.Cache.Backend, noCache))
			printKeyValue("Upload limit", fmt.Sprintf("%d MiB", srv.MaxUploadBytes>>20))
			printNewline()

			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns a listen address like ":8080" into a browsable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func cacheLabel(backend string, noCache bool) string {
	if noCache {
		return "none"
	}
	return backend
}
