package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novblog/internal/handlers"
	"novblog/internal/logger"
	"novblog/internal/repository"
	"novblog/internal/repository/db"
	"novblog/internal/server"
	"novblog/internal/service"

	"github.com/spf13/viper"
)

// defaultSweepTick is how often expired sessions are purged.
const defaultSweepTick = 10 * time.Minute

func main() {
	// load config.yml first so the log level is configurable
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, serviceConfig(), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// purge expired sessions in the background
	go services.Sweeper.Run(ctx, defaultSweepTick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("posts.per_page", 10)
	viper.SetDefault("avatar.formats", []string{"jpg", "jpeg", "png", "bmp"})
	viper.SetDefault("session.ttl_hours", 12)
	viper.SetDefault("session.remember_days", 30)

	return viper.ReadInConfig()
}

// serviceConfig assembles the service tunables from the loaded config.
func serviceConfig() service.Config {
	return service.Config{
		PostsPerPage:  viper.GetInt("posts.per_page"),
		AvatarFormats: viper.GetStringSlice("avatar.formats"),
		SessionTTL:    time.Duration(viper.GetInt("session.ttl_hours")) * time.Hour,
		RememberTTL:   time.Duration(viper.GetInt("session.remember_days")) * 24 * time.Hour,
		SigningKey:    viper.GetString("auth.signing_key"),
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "novblog.db")
		dbPath = "novblog.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
