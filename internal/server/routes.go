package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI Page routes (HTML templates)
	mux.HandleFunc("/", s.handleRootRoute)
	mux.HandleFunc("/translate", s.app.PageHandler.ServePage("translate.html", "translate"))
	mux.HandleFunc("/chat", s.app.PageHandler.ServePage("chat.html", "chat"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// API routes - Authentication
	mux.HandleFunc("/api/auth/login", s.app.AuthHandler.LoginHandler)
	mux.HandleFunc("/api/auth/logout", s.app.AuthHandler.LogoutHandler)

	// API routes - Translation
	mux.HandleFunc("/api/translate", s.app.TranslateHandler.TranslateHandler)
	mux.HandleFunc("/api/translate/", s.handleTranslateRoutes) // GET /{uploadID}/export

	// API routes - Chat (website RAG)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)
	mux.HandleFunc("/api/chat/history", s.app.ChatHandler.HistoryHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	return mux
}

// handleRootRoute serves the login page at exactly "/" and JSON 404s for
// unmatched API paths that fall through to the catch-all pattern.
func (s *Server) handleRootRoute(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			s.app.APIHandler.NotFoundHandler(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}
	s.app.PageHandler.ServePage("index.html", "login")(w, r)
}

// handleTranslateRoutes routes /api/translate/{uploadID}/export
func (s *Server) handleTranslateRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" && strings.HasSuffix(r.URL.Path, "/export") {
		s.app.TranslateHandler.ExportHandler(w, r)
		return
	}
	s.app.APIHandler.NotFoundHandler(w, r)
}
