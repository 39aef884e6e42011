package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, "")
		if err != nil {
			return err
		}
		defer rt.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.Server.Addr = addr
		}

		engine, rec, err := rt.buildEngine()
		if err != nil {
			return err
		}
		defer rec.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:         rt.cfg.Server.Addr,
			Handler:      api.NewServer(engine, rt.buildFreeform(ctx, rec), rt.logger).Routes(),
			ReadTimeout:  rt.cfg.Server.ReadTimeout,
			WriteTimeout: rt.cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		rt.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
