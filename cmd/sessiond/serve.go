package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/sessionbag"
	"github.com/hupe1980/sessionbag/httpsession"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the session data HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().Duration("idle-timeout", 0, "session idle timeout (overrides session.idle_timeout)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("session.idle_timeout", cmd.Flags().Lookup("idle-timeout"))

	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	cfg := a.cfg
	logger := a.logger.Named("server")

	reg, err := sessionbag.New(func(o *sessionbag.Options) {
		o.Logger = logger
		o.Session = httpsession.Options{
			CookieName:  cfg.Session.CookieName,
			CookiePath:  cfg.Session.CookiePath,
			IdleTimeout: cfg.Session.IdleTimeout,
			Secure:      cfg.Session.Secure,
			HTTPOnly:    cfg.Session.HTTPOnly,
			Logger:      a.logger.Named("sessions"),
		}
		o.SweepInterval = cfg.Session.SweepInterval
		o.ShutdownTimeout = cfg.Server.ShutdownTimeout
		o.MaxValueBytes = cfg.Server.MaxValueBytes
		o.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		o.Burst = cfg.RateLimit.Burst
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	logger.Info("starting sessiond", "version", version, "addr", cfg.Server.Addr)
	if err := reg.Serve(cmd.Context(), srv); err != nil {
		logger.Error("server stopped with error", "error", err)
		return err
	}
	logger.Info("sessiond stopped")
	return nil
}
