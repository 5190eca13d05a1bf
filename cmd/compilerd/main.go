// Command compilerd serves the LaTeX compiler over HTTP for API instances
// running with COMPILER_MODE=remote.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/compiler"
	"resume-builder/internal/compiler/service"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	local, err := compiler.NewLocal(cfg.Compiler.Command, cfg.Compiler.WorkDir, cfg.Compiler.Timeout)
	if err != nil {
		log.Fatalf("compiler: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	service.NewHandler(local, cfg.Compiler.Token).RegisterRoutes(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("COMPILERD_PORT")
	if port == "" {
		port = "8081"
	}
	srv := &http.Server{
		Addr:              server.Addr(port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		telemetry.Info("compilerd.start", map[string]any{
			"addr":     srv.Addr,
			"command":  cfg.Compiler.Command[0],
			"work_dir": cfg.Compiler.WorkDir,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("compilerd.shutdown_failed", map[string]any{"error": err.Error()})
	}
}
