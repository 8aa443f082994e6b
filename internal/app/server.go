// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/db"
	activityHandler "crm-service/internal/handlers/activity"
	authHandler "crm-service/internal/handlers/auth"
	contactHandler "crm-service/internal/handlers/contact"
	prospectHandler "crm-service/internal/handlers/prospect"
	wsHandler "crm-service/internal/handlers/ws"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/session"
	"crm-service/internal/pkg/token"
	"crm-service/internal/repository/postgres"
	activityUsecase "crm-service/internal/service/activity"
	authUsecase "crm-service/internal/service/auth"
	contactUsecase "crm-service/internal/service/contact"
	prospectUsecase "crm-service/internal/service/prospect"
	"crm-service/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start(ctx context.Context) error {
	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	// ----- Token Manager -----
	tokenManager, err := token.NewManager(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token manager: %w", err)
	}

	// ----- Credential cache & rate limiter -----
	credentialCache := session.NewCredentialCache(redisClient, s.cfg.Token.TTL)
	rateLimiter := session.NewRateLimiter(redisClient, s.cfg.OTPRateMax, s.cfg.OTPRateWindow)

	// ----- Repositories -----
	authRepo := postgres.NewAuthRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	prospectRepo := postgres.NewProspectRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)

	// ----- Expired OTP reaper -----
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := authRepo.DeleteExpiredOTPs(ctx, time.Now()); err != nil {
					logger.Warn("expired otp cleanup failed", zap.Error(err))
				} else if n > 0 {
					logger.Info("expired otps reaped", zap.Int64("count", n))
				}
			}
		}
	}()

	// ----- Activity feed hub -----
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(authRepo, tokenManager, credentialCache, rateLimiter, s.cfg.OTPTTL, logger)
	activityService := activityUsecase.NewService(activityRepo, hub, logger)
	contactService := contactUsecase.NewContactService(contactRepo, activityService, logger)
	prospectService := prospectUsecase.NewProspectService(prospectRepo, activityService, logger)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	contactHandlerInst := contactHandler.NewContactHandler(contactService)
	prospectHandlerInst := prospectHandler.NewProspectHandler(prospectService)
	activityHandlerInst := activityHandler.NewActivityHandler(activityService)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, authService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	SetupRouter(s.engine, &Handlers{
		AuthHandler:     authHandlerInst,
		ContactHandler:  contactHandlerInst,
		ProspectHandler: prospectHandlerInst,
		ActivityHandler: activityHandlerInst,
		WSHandler:       wsHandlerInst,
		AuthMiddleware:  authMiddleware,
	})

	// ----- Start HTTP -----
	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	return serveHTTP(ctx, logger, s.cfg.HTTPAddr, s.engine)
}

// serveHTTP runs the handler until the context is cancelled, then
// drains in-flight requests before returning.
func serveHTTP(ctx context.Context, logger *zap.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
