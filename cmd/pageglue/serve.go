package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/pageglue/internal/config"
	"github.com/vango-dev/pageglue/internal/errors"
	"github.com/vango-dev/pageglue/pkg/middleware"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/server"
)

// runServer blocks serving srv. Tests replace it to inspect the server.
var runServer = (*server.Server).Run

func serveCmd(a *app) *cobra.Command {
	var (
		port  int
		host  string
		items []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live item page",
		Long: `Serve a live item list. Delete links ask for confirmation in the
browser, and API changes show alerts on every open page.

Examples:
  pageglue serve
  pageglue serve --port=3000
  pageglue serve --item alpha --item beta`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			if host != "" {
				a.cfg.Server.Host = host
			}
			if len(items) > 0 {
				a.cfg.Server.Items = items
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			srv := server.New(serverConfig(a.cfg), server.NewItemStore(a.cfg.Server.Items...))
			srv.SetLogger(a.logger)

			w := cmd.OutOrStdout()
			success(w, "Serving %d items", len(srv.Items().List()))
			info(w, "Page:    %s/", a.cfg.URL())
			info(w, "Metrics: %s/metrics", a.cfg.URL())

			if err := runServer(srv); err != nil {
				return errors.New("P140").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from pageglue.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pageglue.json)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Seed item name (repeatable)")

	return cmd
}

// serverConfig maps pageglue.json onto the server configuration.
func serverConfig(cfg *config.Config) *server.Config {
	sc := server.DefaultConfig()
	sc.Address = cfg.Address()
	sc.Title = cfg.Server.Title
	sc.Notify = notifyConfig(cfg)
	sc.Metrics = middleware.Default()
	return sc
}

// notifyConfig maps the notify section. A zero timeout disables
// auto-dismiss.
func notifyConfig(cfg *config.Config) notify.Config {
	nc := notify.Config{
		Timeout:  cfg.NotifyTimeout(),
		Fade:     cfg.NotifyFade(),
		HolderID: cfg.Notify.ContainerID,
	}
	if nc.Timeout == 0 {
		nc.Timeout = -1
	}
	return nc
}
