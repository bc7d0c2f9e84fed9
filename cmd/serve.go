package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/carfront/internal/activity"
	"github.com/ziadkadry99/carfront/internal/db"
	"github.com/ziadkadry99/carfront/internal/live"
	"github.com/ziadkadry99/carfront/internal/pages"
	"github.com/ziadkadry99/carfront/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the carfront web server",
	Long:  `Serves the car list and detail pages, the creation and delete forms, live change notifications and the activity log API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	opts := pages.OptionsFromConfig(cfg.Pages)

	// Activity log.
	var store *activity.Store
	if cfg.Activity.Enabled {
		database, err := db.Open(cfg.ActivityDBPath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store = activity.NewStore(database)
		opts.Recorder = store
	}

	// Live notifications.
	hub := live.NewHub(cfg.Server.AllowAllOrigins)
	opts.Notifier = hub

	controller, err := pages.New(client, opts)
	if err != nil {
		return fmt.Errorf("loading pages: %w", err)
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		AllowAll: cfg.Server.AllowAllOrigins,
	})
	registerRoutes(srv.Router(), controller, hub, store)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "carfront server %s starting on port %d\n", Version, cfg.Port)
	fmt.Fprintf(os.Stderr, "  Backend: %s%s\n", cfg.Backend.BaseURL, cfg.Backend.CarsPath)
	if store != nil {
		fmt.Fprintf(os.Stderr, "  Activity log: %s\n", cfg.ActivityDBPath())
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// registerRoutes wires the feature packages onto the server router. The
// websocket stays outside the request timeout.
func registerRoutes(r chi.Router, controller *pages.Controller, hub *live.Hub, store *activity.Store) {
	hub.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(server.Timeout)

		// Activity log API
		if store != nil {
			activity.RegisterRoutes(r, store)
		}

		// Pages, forms and static assets
		controller.RegisterRoutes(r)
	})
}
