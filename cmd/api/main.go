package main

import (
	"fmt"
	"net/http"

	"github.com/initcore/callcenter-backend-go/internal/config"
	appHTTP "github.com/initcore/callcenter-backend-go/internal/handler/http"
	"github.com/initcore/callcenter-backend-go/internal/pkg/cron"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
	"github.com/initcore/callcenter-backend-go/internal/pkg/sse"
	"github.com/initcore/callcenter-backend-go/internal/repository/postgresql"
	attendanceService "github.com/initcore/callcenter-backend-go/internal/service/attendance"
	breakService "github.com/initcore/callcenter-backend-go/internal/service/breaks"
	paymentService "github.com/initcore/callcenter-backend-go/internal/service/payment"
	presenceService "github.com/initcore/callcenter-backend-go/internal/service/presence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	txRunner := postgresql.NewTxRunner(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	breakTypeRepo := postgresql.NewBreakTypeRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	hub := sse.NewHub()
	loc := cfg.Location()

	presenceSvc := presenceService.NewPresenceService(hub, breakRepo, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(txRunner, loc, attendanceRepo, breakRepo, userRepo, presenceSvc)
	breakSvc := breakService.NewBreakService(loc, cfg.Breaks.MaxDuration, breakRepo, breakTypeRepo, attendanceRepo, presenceSvc)
	paymentSvc := paymentService.NewPaymentService(txRunner, paymentRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	breakHandler := appHTTP.NewBreakHandler(breakSvc, presenceSvc)
	presenceHandler := appHTTP.NewPresenceHandler(hub, presenceSvc)
	paymentHandler := appHTTP.NewPaymentHandler(paymentSvc)

	if cfg.Breaks.SweepEnabled {
		scheduler := cron.NewScheduler()
		cron.RegisterBreakSweep(scheduler, breakSvc, cfg.Breaks.SweepInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		cfg.App.Env,
		JWTService,
		attendanceHandler,
		breakHandler,
		presenceHandler,
		paymentHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
