package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/config"
	"github.com/Tomlord1122/tracker-backend/internal/service"
)

// HealthChecker reports database health as flat key/value stats.
type HealthChecker interface {
	Health() map[string]string
}

type Server struct {
	port     int
	services *service.Services
	db       HealthChecker
	logger   *zap.Logger
}

func NewServer(cfg config.ServerConfig, services *service.Services, db HealthChecker, logger *zap.Logger) *http.Server {
	appServer := &Server{
		port:     cfg.Port,
		services: services,
		db:       db,
		logger:   logger,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     zap.NewStdLog(logger),
	}

	return server
}
