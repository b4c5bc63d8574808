package providers

import (
	"github.com/samber/do/v2"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/logger"
	"github.com/scriptroom/scriptroom-server/internal/tts"
)

// ProvideOrchestrator provides the alignment engine.
func ProvideOrchestrator(i do.Injector) (*align.Orchestrator, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return align.NewOrchestrator(storeHandle.Store, log.Logger), nil
}

// TTSClientHandle wraps the TTS client with shutdown capability.
type TTSClientHandle struct {
	*tts.Client
}

// Shutdown implements do.Shutdownable.
func (h *TTSClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideTTSClient provides the rate-limited TTS client.
func ProvideTTSClient(i do.Injector) (*TTSClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &TTSClientHandle{Client: tts.NewClient(cfg.TTS, log.Logger)}, nil
}

// ProvideGenerator provides the voice generation service.
func ProvideGenerator(i do.Injector) (*tts.Generator, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*TTSClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return tts.NewGenerator(storeHandle.Store, client.Client, log.Logger), nil
}
