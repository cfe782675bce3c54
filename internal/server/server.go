package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/config"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/template"
	"github.com/ihsan-khan/library-management-system/internal/ui"
	"github.com/ihsan-khan/library-management-system/internal/version"
)

// StartServer starts the HTTP server in the background.
// Errors other than a clean shutdown are sent on the returned channel.
func StartServer(ctx context.Context, store *store.Store) (*http.Server, <-chan error, error) {
	handler, err := setupHandler(store)
	if err != nil {
		return nil, nil, err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(config.Opts.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.Opts.WriteTimeout) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := startHTTPServer(server)
	return server, errc, nil
}

func startHTTPServer(server *http.Server) <-chan error {
	errc := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("listen_address", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func setupHandler(store *store.Store) (http.Handler, error) {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			log.Error("Database connection error", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}
		response.Text(w, r, "OK")
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, r, version.GetCurrentVersion())
	}).Name("version")

	templates, err := template.NewEngine()
	if err != nil {
		return nil, err
	}
	ui.Serve(router, ui.NewHandler(store, templates, config.Opts))

	return router, nil
}
