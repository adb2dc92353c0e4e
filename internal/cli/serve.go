package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/internal/server"
)

// serveCommand creates the local artifact server command.
func (c *CLI) serveCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the artifact directory over HTTP",
		Long: `Serve binds a free loopback port and exposes composed print files under
/files/. Tunnel the address to hand the marketplace direct URLs without
uploading every intermediate file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Assets.ArtifactsDir
			}

			srv, err := server.New(dir, c.Logger)
			if err != nil {
				return err
			}
			if err := srv.Start(); err != nil {
				return err
			}

			printSuccess("Serving %s", dir)
			printKeyValue("address", StyleLink.Render(fmt.Sprintf("http://%s", srv.Addr())))
			printDetail("ctrl-c to stop")

			<-cmd.Context().Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory to serve (default from config)")
	return cmd
}
