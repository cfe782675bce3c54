package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/config"
	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/server"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/store/db"
	"github.com/ihsan-khan/library-management-system/internal/version"
)

const (
	greetingBanner = `
██      ██ ██████  ██████   █████  ██████  ██    ██
██      ██ ██   ██ ██   ██ ██   ██ ██   ██  ██  ██
██      ██ ██████  ██████  ███████ ██████    ████
██      ██ ██   ██ ██   ██ ██   ██ ██   ██    ██
███████ ██ ██████  ██   ██ ██   ██ ██   ██    ██
`
	shutdownTimeout = 10 * time.Second
)

var (
	configFile string
	dsn        string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:   "e-library",
		Short: "E-Library is a library management web application",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadOptions(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the web pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB(context.Background())
			if err != nil {
				return err
			}
			return d.Close()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetCurrentVersion())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "path of the sqlite database")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "host to listen on")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "port to listen on")
	rootCmd.PersistentFlags().StringVarP(&data, "data", "d", "", "data directory")

	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

// loadOptions builds config.Opts from the defaults, the config file, the
// environment and finally the command line flags.
func loadOptions(cmd *cobra.Command) error {
	config.GetDefaultOptions()
	if configFile != "" {
		if _, err := config.ParseFile(configFile); err != nil {
			return err
		}
	} else if _, err := config.ParseEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		config.Opts.Host = host
	}
	if flags.Changed("port") {
		config.Opts.Port = port
	}
	if flags.Changed("data") {
		config.Opts.Data = data
	}

	if err := config.ResolveDataDir(); err != nil {
		return err
	}
	if flags.Changed("dsn") {
		config.Opts.DSN = dsn
	}

	log.Logger = log.NewLogger()
	return nil
}

func openDB(ctx context.Context) (*db.DB, error) {
	d, err := db.NewDB(config.Opts.DSN)
	if err != nil {
		log.Error("Error connecting to database", zap.Error(err))
		return nil, err
	}
	if err := d.Migrate(ctx); err != nil {
		d.Close()
		log.Error("Error migrating database", zap.Error(err))
		return nil, err
	}
	return d, nil
}

func serve() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := openDB(ctx)
	if err != nil {
		return err
	}
	s := store.NewStore(d.DB)
	defer s.Close()
	if err := s.Ping(); err != nil {
		log.Error("Error pinging database", zap.Error(err))
		return err
	}

	fmt.Print(greetingBanner)
	srv, errc, err := server.StartServer(ctx, s)
	if err != nil {
		log.Error("Error creating server", zap.Error(err))
		return err
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down the server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	err := rootCmd.Execute()
	log.Logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
