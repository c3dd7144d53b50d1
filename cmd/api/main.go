package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buildform/siteops-backend-go/internal/config"
	appHTTP "github.com/buildform/siteops-backend-go/internal/handler/http"
	"github.com/buildform/siteops-backend-go/internal/pkg/cron"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/buildform/siteops-backend-go/internal/pkg/email"
	"github.com/buildform/siteops-backend-go/internal/pkg/jwt"
	"github.com/buildform/siteops-backend-go/internal/pkg/oauth"
	"github.com/buildform/siteops-backend-go/internal/pkg/sse"
	"github.com/buildform/siteops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/buildform/siteops-backend-go/internal/service/attendance"
	authService "github.com/buildform/siteops-backend-go/internal/service/auth"
	employeeService "github.com/buildform/siteops-backend-go/internal/service/employee"
	leaveService "github.com/buildform/siteops-backend-go/internal/service/leave"
	materialService "github.com/buildform/siteops-backend-go/internal/service/material"
	notificationService "github.com/buildform/siteops-backend-go/internal/service/notification"
	pettyCashService "github.com/buildform/siteops-backend-go/internal/service/pettycash"
	siteService "github.com/buildform/siteops-backend-go/internal/service/site"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	materialRepo := postgresql.NewMaterialRepository(db)
	pettyCashRepo := postgresql.NewPettyCashRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	emailService := email.NewEmailService(cfg.SMTP)

	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, slog.Default(), notificationService.Config{})
	defer notifSvc.Stop()

	authSvc := authService.NewAuthService(userRepo, jwtService, jwtRepo, googleService)
	siteSvc := siteService.NewSiteService(siteRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, siteRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, siteRepo, userRepo, notifSvc)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, employeeRepo, userRepo, notifSvc)
	materialSvc := materialService.NewMaterialService(materialRepo, siteRepo)
	pettyCashSvc := pettyCashService.NewPettyCashService(pettyCashRepo, siteRepo)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:          jwtService,
		AuthHandler:         appHTTP.NewAuthHandler(jwtService, authSvc, googleService, cfg.App.FrontendURL),
		AttendanceHandler:   appHTTP.NewAttendanceHandler(attendanceSvc),
		SiteHandler:         appHTTP.NewSiteHandler(siteSvc),
		EmployeeHandler:     appHTTP.NewEmployeeHandler(employeeSvc),
		LeaveHandler:        appHTTP.NewLeaveHandler(leaveSvc),
		MaterialHandler:     appHTTP.NewMaterialHandler(materialSvc),
		PettyCashHandler:    appHTTP.NewPettyCashHandler(pettyCashSvc),
		NotificationHandler: appHTTP.NewNotificationHandler(notifSvc),
		FrontendURL:         cfg.App.FrontendURL,
		Env:                 cfg.App.Env,
	})

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, employeeRepo, userRepo, notifSvc, emailService).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
