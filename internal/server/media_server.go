package server

import (
	"context"
	"net/http"

	"mgtu_lab_backend/internal/config"
	"mgtu_lab_backend/pkg/logger"
	"mgtu_lab_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaServer раздает изображения вопросов по обычному HTTP GET
// /images/<filename> на собственном слушателе, независимо от протокольного
// сервера. Аутентификации нет: развертывание рассчитано на доверенную
// локальную сеть.
type MediaServer struct {
	srv *http.Server
}

func NewMediaServer(cfg *config.Config) *MediaServer {
	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Static("/images", cfg.Static.ImagesDir)
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &MediaServer{
		srv: &http.Server{
			Addr:    cfg.StaticAddr(),
			Handler: router,
		},
	}
}

func (m *MediaServer) Start() {
	go func() {
		logger.Log.Info("static media server listening", zap.String("addr", m.srv.Addr))
		if err := m.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("static media server failed", zap.Error(err))
		}
	}()
}

func (m *MediaServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
