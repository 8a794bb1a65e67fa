package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (default: PORT env or 8080)")
	serveCmd.Flags().Bool("seed", true, "Seed empty catalog collections with sample data")
	rootCmd.AddCommand(serveCmd)
}

// listen tries port first and then the next ten ports.
func listen(port string) (net.Listener, string, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err == nil {
		return ln, port, nil
	}
	first := err
	var p int
	if _, scanErr := fmt.Sscanf(port, "%d", &p); scanErr != nil {
		return nil, "", first
	}
	for alt := p + 1; alt <= p+10; alt++ {
		if l2, err2 := net.Listen("tcp", fmt.Sprintf(":%d", alt)); err2 == nil {
			log.Warn().Str("busy", port).Int("port", alt).Msg("port in use, using fallback")
			return l2, fmt.Sprint(alt), nil
		}
	}
	return nil, "", first
}

func runServe(cmd *cobra.Command, args []string) error {
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	seed, _ := cmd.Flags().GetBool("seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, seed)
	if err != nil {
		return err
	}
	defer a.Close()

	ln, port, err := listen(cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		if err := a.RunNotifyWorker(ctx); err != nil {
			log.Error().Err(err).Msg("notify worker")
		}
	}()

	server := &http.Server{
		Handler:      a.HTTPHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Info().Str("port", port).Str("env", cfg.AppEnv).Msg("galeria listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
