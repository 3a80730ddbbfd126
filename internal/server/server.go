package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sngm3741/restreviews/api/internal/config"
	mongodoc "github.com/sngm3741/restreviews/api/internal/infrastructure/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoClient is the subset of *mongo.Client the server needs.
type mongoClient interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// Server は運用向け HTTP エンドポイント (healthz / readyz / metrics) とプロセスのライフサイクルを管理する。
// レストランデータの配信は上位の API 層の責務であり、ここでは扱わない。
type Server struct {
	logger       *log.Logger
	client       mongoClient
	handles      []*mongodoc.CollectionHandle
	addr         string
	probeTimeout time.Duration
}

// New は Config と Mongo クライアント、起動時に束縛済みのコレクションハンドルから Server を組み立てる。
func New(cfg config.Config, client mongoClient, handles ...*mongodoc.CollectionHandle) *Server {
	probeTimeout := cfg.QueryTimeout
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &Server{
		logger:       cfg.ServerLog,
		client:       client,
		handles:      append([]*mongodoc.CollectionHandle(nil), handles...),
		addr:         cfg.Addr,
		probeTimeout: probeTimeout,
	}
}

// Routes builds the router with middleware and probe endpoints.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.healthHandler())
	router.Get("/readyz", s.readyHandler())
	router.Handle("/metrics", promhttp.Handler())
	return router
}

// Run starts the HTTP server and blocks until it stops or a shutdown signal arrives.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// healthHandler は MongoDB への疎通のみを確認する。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.probeTimeout)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// readyHandler reports whether every collection handle was bound at startup.
// An unbound handle stays unbound until the process restarts.
func (s *Server) readyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		collections := make(map[string]bool, len(s.handles))
		ready := true
		for _, h := range s.handles {
			bound := h.Bound()
			collections[h.Name()] = bound
			ready = ready && bound
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "unbound"
		}
		s.writeJSON(w, status, map[string]any{
			"status":      state,
			"collections": collections,
		})
	}
}

// writeJSON は JSON レスポンスの共通書き込み処理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を行う。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
