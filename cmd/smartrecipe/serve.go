package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/flags"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/recipeserver"
)

const shutdownGracePeriod = 10 * time.Second

type ServerFlags struct {
	DBFlags    *flags.PostgresFlags
	AIFlags    *flags.AIFlags
	AgentFlags *flags.AgentFlags

	ListenAddr  string
	MetricsAddr string
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		DBFlags:     flags.NewPostgresDatabaseFlags(),
		AIFlags:     flags.NewAIFlags(),
		AgentFlags:  flags.NewAgentFlags(),
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
	}
}

func (f *ServerFlags) BindFlags(flagSet *pflag.FlagSet) {
	f.DBFlags.BindFlags(flagSet)
	f.AIFlags.BindFlags(flagSet)
	f.AgentFlags.BindFlags(flagSet)

	flagSet.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the API on (default :8080)")
	flagSet.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on (default :2112)")
}

func (f *ServerFlags) Validate() error {
	return f.AgentFlags.Validate()
}

func NewServeCommand() *cobra.Command {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the smart recipe backend server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			dbc, err := f.DBFlags.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "couldn't get DB client")
			}
			defer dbc.Close()

			server := recipeserver.NewServer(
				f.ListenAddr,
				chat.NewStore(dbc),
				f.AgentFlags.GetAgentClient(),
				f.AIFlags.GetLLMClient(),
			)

			// Serve prometheus metrics separately from the API.
			go func() {
				log.Infof("Serving metrics on %s", f.MetricsAddr)
				http.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(f.MetricsAddr, nil); err != nil {
					log.WithError(err).Error("metrics server exited")
				}
			}()

			go server.Serve()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.WithField("signal", sig.String()).Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return errors.WithMessage(err, "error draining server")
			}

			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
