package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrackDrop/config"
	"TrackDrop/logger"
	"TrackDrop/repository"
	"TrackDrop/storage"

	"github.com/gorilla/mux"
)

// Server wires the track store, payload storage and HTTP routes together.
type Server struct {
	cfg      *config.Config
	store    *repository.TrackStore
	payloads *storage.LocalStore
	handler  *APIHandler
	router   *mux.Router
}

// New builds a server from cfg: it creates the payload directories, loads the
// track store and registers all routes. A nil mirror disables mirroring.
func New(cfg *config.Config, mirror storage.Mirror) (*Server, error) {
	payloads := storage.NewLocalStore(cfg.UploadDir, cfg.CoverDir)
	if err := payloads.EnsureDirs(); err != nil {
		return nil, err
	}

	store := repository.NewTrackStore(repository.NewJSONFilePersister(cfg.MetadataFile))
	store.Load()

	s := &Server{
		cfg:      cfg,
		store:    store,
		payloads: payloads,
		handler:  NewAPIHandler(store, payloads, mirror, cfg.MaxUploadBytes()),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogMiddleware, corsMiddleware)

	router.HandleFunc("/upload", s.handler.UploadTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks", s.handler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/like/{id}", s.handler.LikeHandler).Methods(http.MethodPost)
	router.HandleFunc("/comment/{id}", s.handler.CommentHandler).Methods(http.MethodPost)
	router.HandleFunc("/comments/{id}", s.handler.GetCommentsHandler).Methods(http.MethodGet)

	// Stored payloads
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadDir)))).Methods(http.MethodGet, http.MethodHead)
	router.PathPrefix("/covers/").Handler(http.StripPrefix("/covers/", http.FileServer(http.Dir(s.cfg.CoverDir)))).Methods(http.MethodGet, http.MethodHead)

	// Frontend UI serving
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.WebDir))).Methods(http.MethodGet, http.MethodHead)

	// Preflight for any path; corsMiddleware answers it
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store exposes the track store.
func (s *Server) Store() *repository.TrackStore {
	return s.store
}

// Run serves HTTP on the configured port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server draait op poort "+s.cfg.Port, logger.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.handler.WaitMirrors()
	logger.Info("Server stopped")
	return nil
}

// Start loads configuration, builds the server and runs it until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	mirror, err := storage.NewMirror(context.Background(), cfg)
	if err != nil {
		logger.Warn("Payload mirror disabled", logger.ErrorField(err))
		mirror = storage.NopMirror{}
	}

	s, err := New(cfg, mirror)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}
