// Package http exposes the tracker as a JSON API: account endpoints, the
// per-user ledger operations, and the aggregated views the dashboard reads.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"comeback/internal/identity"
	applog "comeback/internal/log"
	"comeback/internal/session"
)

type Server struct {
	http.Server

	ids      *identity.Service
	registry *sessionRegistry
	logger   *applog.Logger

	watchCancel  context.CancelFunc
	shutdownOnce sync.Once
}

func NewServer(addr string, ids *identity.Service, mgr *session.Manager, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		ids:      ids,
		registry: newSessionRegistry(mgr),
		logger:   logger.WithComponent(applog.ComponentHTTP),
	}
	// Handlers pull the request logger back out via applog.FromContext.
	s.Handler = applog.Middleware(s.logger)(mux)

	// Sessions close on sign-out so pending edits get a final flush.
	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel
	go s.registry.watch(watchCtx, ids.Subscribe(), s.logger)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.withLogging(s.handleSignUp))
	mux.HandleFunc("POST /api/auth/login", s.withLogging(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.withLogging(s.withAuth(s.handleLogout)))
	mux.HandleFunc("POST /api/auth/password-reset", s.withLogging(s.handlePasswordResetRequest))
	mux.HandleFunc("POST /api/auth/password-reset/confirm", s.withLogging(s.handlePasswordResetConfirm))

	mux.HandleFunc("GET /api/ledger", s.withLogging(s.withAuth(s.handleGetLedger)))
	mux.HandleFunc("GET /api/sync-status", s.withLogging(s.withAuth(s.handleSyncStatus)))

	mux.HandleFunc("POST /api/expenses", s.withLogging(s.withAuth(s.handleAddExpense)))
	mux.HandleFunc("PATCH /api/months/{month}/bills/{id}", s.withLogging(s.withAuth(s.handleEditBill)))
	mux.HandleFunc("POST /api/months/{month}/bills/{id}/cycle", s.withLogging(s.withAuth(s.handleCycleStatus)))
	mux.HandleFunc("DELETE /api/months/{month}/bills/{id}", s.withLogging(s.withAuth(s.handleDeleteBill)))

	mux.HandleFunc("POST /api/income", s.withLogging(s.withAuth(s.handleAddIncome)))
	mux.HandleFunc("PUT /api/income/{index}", s.withLogging(s.withAuth(s.handleEditIncome)))
	mux.HandleFunc("DELETE /api/income/{index}", s.withLogging(s.withAuth(s.handleDeleteIncome)))

	mux.HandleFunc("PUT /api/months/{month}/credit-score", s.withLogging(s.withAuth(s.handleSetCreditScore)))
	mux.HandleFunc("PUT /api/months/{month}/savings", s.withLogging(s.withAuth(s.handleSetSavings)))

	mux.HandleFunc("GET /api/months/{month}/summary", s.withLogging(s.withAuth(s.handleMonthSummary)))
	mux.HandleFunc("GET /api/months/{month}/bills", s.withLogging(s.withAuth(s.handleGroupedBills)))
	mux.HandleFunc("GET /api/months/{month}/report", s.withLogging(s.withAuth(s.handleMonthReport)))

	return s
}

// Shutdown flushes every live session, then stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.watchCancel()
		s.registry.closeAll()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
