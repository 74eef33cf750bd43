package router

import (
	"net/http"
	"strings"

	"freshtrack/internal/audit"
	"freshtrack/internal/auth"
	"freshtrack/internal/handler"
	"freshtrack/internal/middleware"
	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

// Deps carries everything the router wires together.
type Deps struct {
	Auth          *handler.AuthHandler
	Products      *handler.ProductHandler
	Imports       *handler.ImportHandler
	ImportHistory *handler.ImportHistoryHandler
	Users         *handler.UserHandler
	Logs          *handler.LogHandler

	JWTSecret string
	Revoker   auth.TokenRevoker
	UserRepo  repository.UserRepository
	Recorder  *audit.Recorder
	Logger    zerolog.Logger
}

// New creates a new HTTP router with all routes and middleware configured.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/auth/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/auth/register" && r.Method == http.MethodPost:
			d.Auth.Register(w, r)
		case r.URL.Path == "/api/auth/login" && r.Method == http.MethodPost:
			d.Auth.Login(w, r)
		case r.URL.Path == "/api/auth/logout" && r.Method == http.MethodPost:
			d.Auth.Logout(w, r)
		case r.URL.Path == "/api/auth/change-password" && r.Method == http.MethodPut:
			d.Auth.ChangePassword(w, r)
		case r.URL.Path == "/api/auth/me" && r.Method == http.MethodGet:
			d.Auth.Me(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/api/products/stats" && r.Method == http.MethodGet:
			d.Products.Stats(w, r)
		case path == "/api/products/template/export" && r.Method == http.MethodGet:
			d.Imports.Template(w, r)
		case path == "/api/products/batch/import" && r.Method == http.MethodPost:
			d.Imports.Upload(w, r)
		case path == "/api/products/batch/delete" && r.Method == http.MethodPost:
			d.Products.BatchDelete(w, r)
		case path == "/api/products" || path == "/api/products/":
			switch r.Method {
			case http.MethodGet:
				d.Products.List(w, r)
			case http.MethodPost:
				d.Products.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		default:
			// /api/products/{id}
			switch r.Method {
			case http.MethodGet:
				d.Products.Get(w, r)
			case http.MethodPut:
				d.Products.Update(w, r)
			case http.MethodDelete:
				d.Products.Delete(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		}
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	superAdminOnly := middleware.RequireRole(d.Logger, model.RoleSuperAdmin)

	userRouteHandler := superAdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/api/users/stats" && r.Method == http.MethodGet:
			d.Users.Stats(w, r)
		case (path == "/api/users" || path == "/api/users/") && r.Method == http.MethodGet:
			d.Users.List(w, r)
		case strings.HasSuffix(path, "/password") && r.Method == http.MethodPut:
			d.Users.ResetPassword(w, r)
		default:
			switch r.Method {
			case http.MethodGet:
				d.Users.Get(w, r)
			case http.MethodPut:
				d.Users.Update(w, r)
			case http.MethodDelete:
				d.Users.Delete(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		}
	}))
	mux.Handle("/api/users", userRouteHandler)
	mux.Handle("/api/users/", userRouteHandler)

	logRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/api/logs/actions" && r.Method == http.MethodGet:
			d.Logs.Actions(w, r)
		case (path == "/api/logs" || path == "/api/logs/") && r.Method == http.MethodGet:
			d.Logs.List(w, r)
		case (path == "/api/logs" || path == "/api/logs/") && r.Method == http.MethodDelete:
			superAdminOnly(http.HandlerFunc(d.Logs.Purge)).ServeHTTP(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/logs", logRouteHandler)
	mux.HandleFunc("/api/logs/", logRouteHandler)

	historyRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case (path == "/api/import-history" || path == "/api/import-history/") && r.Method == http.MethodGet:
			d.ImportHistory.List(w, r)
		case r.Method == http.MethodDelete:
			d.ImportHistory.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/import-history", historyRouteHandler)
	mux.HandleFunc("/api/import-history/", historyRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> JWTAuth -> Audit
	var h http.Handler = mux
	h = middleware.Audit(d.Recorder)(h)
	h = middleware.JWTAuth(d.JWTSecret, d.Revoker, d.UserRepo, d.Logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(d.Logger)(h)
	h = middleware.Recovery(d.Logger)(h)

	return h
}
