package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/reelwrapped/reelwrapped-server/internal/config"
	"github.com/reelwrapped/reelwrapped-server/internal/enrich"
	"github.com/reelwrapped/reelwrapped-server/internal/logger"
	"github.com/reelwrapped/reelwrapped-server/internal/progress"
	"github.com/reelwrapped/reelwrapped-server/internal/service"
)

// ProvideTracker provides the in-memory session tracker, writing state
// through to the store so polling survives restarts.
func ProvideTracker(i do.Injector) (*progress.Tracker, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return progress.NewTracker(storeHandle.Store, log.Logger), nil
}

// ProvideAnalysisService provides the analysis pipeline service.
func ProvideAnalysisService(i do.Injector) (*service.AnalysisService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tracker := do.MustInvoke[*progress.Tracker](i)
	enricher := do.MustInvoke[*enrich.Enricher](i)

	workDir := filepath.Join(cfg.Storage.BasePath, "sessions")
	return service.New(enricher, storeHandle.Store, tracker, workDir, log.Logger), nil
}
