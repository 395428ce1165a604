package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/danmalone/pagemeta/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rendered pages and the metadata API",
	Long: `Start the HTTP page shell.

Routes:
  GET /                    the default page
  GET /pages/<page>        a rendered page
  GET /api/metadata/<page> the metadata record as JSON
  GET /healthz             liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var flagServeListen string

func init() {
	serveCmd.Flags().StringVar(&flagServeListen, "listen", "", "Listen address (default: listen from the config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	addr := flagServeListen
	if addr == "" {
		addr = cfg.Listen
	}
	if !flagVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printOK("", fmt.Sprintf("serving %s on http://%s", cfg.ContentPath(), addr))
	return server.New(svc, logger).Run(ctx, addr)
}
