package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/battlesnakeio/snake/api"
	"github.com/battlesnakeio/snake/config"
	"github.com/battlesnakeio/snake/engine"
	"github.com/battlesnakeio/snake/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveListen = ":3005"
)

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", serveListen, "api address to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves the browser board and the game api",
	Run: func(c *cobra.Command, args []string) {
		st := store.InstrumentStore(store.InMemStore(config.MaxFrames))
		manager := engine.NewManager(st, config.MaxSessions)
		manager.IdleTimeout = config.SessionIdle
		server := api.New(serveListen, manager)

		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			log.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.WithError(err).Warn("unclean shutdown")
			}
		}()

		log.WithField("listen", serveListen).Info("snake board available")
		if err := server.WaitForExit(); err != nil {
			log.WithError(err).
				WithField("listen", serveListen).
				Fatal("api server failed")
		}
	},
}
