package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/reelwrapped/reelwrapped-server/internal/api"
	"github.com/reelwrapped/reelwrapped-server/internal/config"
	"github.com/reelwrapped/reelwrapped-server/internal/logger"
	"github.com/reelwrapped/reelwrapped-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	analysisService := do.MustInvoke[*service.AnalysisService](i)

	handler := api.NewServer(analysisService, storeHandle.Store, api.Config{
		CORSOrigins:    cfg.Server.CORSOrigins,
		UploadDir:      cfg.Upload.Dir,
		MaxUploadBytes: int64(cfg.Upload.MaxSizeMB) << 20,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
