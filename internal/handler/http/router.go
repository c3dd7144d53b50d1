package http

import (
	"log/slog"
	"os"

	"github.com/buildform/siteops-backend-go/internal/handler/http/middleware"
	"github.com/buildform/siteops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	JWTService          jwt.Service
	AuthHandler         AuthHandler
	AttendanceHandler   AttendanceHandler
	SiteHandler         SiteHandler
	EmployeeHandler     EmployeeHandler
	LeaveHandler        LeaveHandler
	MaterialHandler     MaterialHandler
	PettyCashHandler    PettyCashHandler
	NotificationHandler NotificationHandler

	FrontendURL string
	Env         string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "siteops-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

	ja := deps.JWTService.JWTAuth()

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.Register)
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/refresh", deps.AuthHandler.RefreshToken)
			r.Post("/logout", deps.AuthHandler.Logout)
			r.Route("/oauth", func(r chi.Router) {
				r.Get("/google", deps.AuthHandler.LoginWithGoogle)
				r.Get("/callback/google", deps.AuthHandler.OAuthCallbackGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired(ja))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", deps.AttendanceHandler.CheckIn)
				r.Post("/check-out", deps.AttendanceHandler.CheckOut)
				r.Get("/", deps.AttendanceHandler.List)
				r.Get("/{id}", deps.AttendanceHandler.Get)
				r.Get("/status/{employeeID}", deps.AttendanceHandler.Status)
				r.Get("/summary/site/{site}", deps.AttendanceHandler.SummaryBySite)
				r.Get("/summary/employee/{employeeID}", deps.AttendanceHandler.SummaryByEmployee)

				// Approvers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ApproverOnly)
					r.Post("/{id}/review", deps.AttendanceHandler.Review)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", deps.LeaveHandler.Submit)
				r.Get("/", deps.LeaveHandler.List)
				r.Get("/{id}", deps.LeaveHandler.Get)

				// Approvers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ApproverOnly)
					r.Post("/{id}/decision", deps.LeaveHandler.Decide)
				})
			})

			r.Route("/sites", func(r chi.Router) {
				r.Get("/", deps.SiteHandler.List)
				r.Get("/{id}", deps.SiteHandler.Get)
				r.Get("/code/{code}", deps.SiteHandler.GetByCode)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", deps.SiteHandler.Create)
					r.Put("/{id}", deps.SiteHandler.Update)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", deps.EmployeeHandler.List)
				r.Get("/{id}", deps.EmployeeHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", deps.EmployeeHandler.Create)
					r.Put("/{id}", deps.EmployeeHandler.Update)
				})
			})

			r.Route("/materials", func(r chi.Router) {
				r.Post("/", deps.MaterialHandler.Create)
				r.Get("/site/{siteCode}", deps.MaterialHandler.ListBySite)
				r.Get("/{id}", deps.MaterialHandler.Get)
				r.Post("/{id}/movements", deps.MaterialHandler.RecordMovement)
				r.Get("/{id}/movements", deps.MaterialHandler.ListMovements)
			})

			r.Route("/petty-cash", func(r chi.Router) {
				r.Post("/", deps.PettyCashHandler.Record)
				r.Get("/site/{siteCode}", deps.PettyCashHandler.Ledger)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", deps.NotificationHandler.List)
				r.Post("/{id}/read", deps.NotificationHandler.MarkRead)
				r.Post("/read-all", deps.NotificationHandler.MarkAllRead)
			})
		})

		// SSE stream. EventSource cannot set headers, so the token may also
		// come from the jwt query parameter.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(ja, jwtauth.TokenFromQuery, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie))
			r.Use(middleware.AuthRequired(ja))
			r.Get("/notifications/stream", deps.NotificationHandler.Stream)
		})
	})

	return r
}
