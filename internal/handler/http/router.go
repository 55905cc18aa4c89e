package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/initcore/callcenter-backend-go/internal/handler/http/middleware"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
)

func NewRouter(
	env string,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	breakHandler BreakHandler,
	presenceHandler PresenceHandler,
	paymentHandler PaymentHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "callcenter-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/login", attendanceHandler.Login)
				r.Post("/logout", attendanceHandler.Logout)
				r.Get("/", attendanceHandler.List)

				r.With(middleware.RequireSupervisor).
					Patch("/{id}/regulation", attendanceHandler.UpdateRegulation)
			})

			r.Route("/breaks", func(r chi.Router) {
				r.Post("/start", breakHandler.Start)
				r.Post("/end", breakHandler.End)
				r.Get("/state/{userID}", breakHandler.State)

				r.With(middleware.RequireSupervisor).
					Get("/active", breakHandler.ListActive)
			})

			r.Route("/break-types", func(r chi.Router) {
				r.Get("/", breakHandler.ListTypes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdministrator)
					r.Post("/", breakHandler.CreateType)
					r.Delete("/{id}", breakHandler.DeleteType)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdministrator)
					r.Post("/{id}/verify", paymentHandler.Verify)
					r.Get("/{id}/invoice", paymentHandler.Invoice)
				})
			})
		})

		// SSE streams also accept the token as a query parameter, since
		// EventSource cannot set headers
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(),
				jwtauth.TokenFromQuery, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/presence", func(r chi.Router) {
				r.Get("/stream", presenceHandler.MonitorStream)
				r.Get("/stream/{userID}", presenceHandler.SelfStream)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
