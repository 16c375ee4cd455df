package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/api"
	"github.com/cacildafilmes/cacilda/internal/logging"
)

// EnvChecker reports which credentials the server was started with.
type EnvChecker interface {
	CheckEnv() map[string]string
	EnvironmentReady() bool
}

// ConnectionProber touches the catalog table.
type ConnectionProber interface {
	Count(ctx context.Context) (int64, error)
}

type StatusHandler struct {
	env    EnvChecker
	prober ConnectionProber
	logger *zap.Logger
}

func NewStatusHandler(env EnvChecker, prober ConnectionProber, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{env: env, prober: prober, logger: logging.OrNop(logger)}
}

type CheckEnvResponse struct {
	EnvironmentReady bool              `json:"environmentReady"`
	Variables        map[string]string `json:"variables"`
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StatusHandler) CheckEnv(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, CheckEnvResponse{
		EnvironmentReady: h.env.EnvironmentReady(),
		Variables:        h.env.CheckEnv(),
	})
}

func (h *StatusHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if _, err := h.prober.Count(r.Context()); err != nil {
		h.logger.Error("connection test failed", zap.Error(err))
		api.Result(w, http.StatusInternalServerError, "Erro ao testar conexão")
		return
	}
	api.Result(w, http.StatusOK, "Conexão com o banco de dados bem-sucedida")
}
