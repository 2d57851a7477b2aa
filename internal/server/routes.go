package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/coinfolio/internal/common"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)

	mux.HandleFunc("/api/portfolios", s.handlePortfolios)
	mux.HandleFunc("/api/portfolios/", s.routePortfolio)

	mux.HandleFunc("/api/holdings", s.handleAllHoldings)
	mux.HandleFunc("/api/history", s.handleAllHistory)
}

// routePortfolio dispatches /api/portfolios/{id}[/...] requests.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "Portfolio ID is required")
		return
	}

	portfolioID := parts[0]
	switch {
	case len(parts) == 1:
		s.handlePortfolio(w, r, portfolioID)
	case len(parts) == 2 && parts[1] == "transactions":
		s.handleTransactions(w, r, portfolioID)
	case len(parts) == 3 && parts[1] == "transactions":
		s.handleTransaction(w, r, portfolioID, parts[2])
	case len(parts) == 2 && parts[1] == "holdings":
		s.handleHoldings(w, r, portfolioID)
	case len(parts) == 2 && parts[1] == "history":
		s.handleHistory(w, r, portfolioID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// requireUser extracts the authenticated user ID from the request context,
// writing a 401 when absent.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}
