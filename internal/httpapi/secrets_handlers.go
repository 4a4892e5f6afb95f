package httpapi

import (
	"encoding/json"
	"net/http"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/secrets"
)

type SecretsHandler struct {
	d Deps
}

type setAPIKeyReq struct {
	APIKey string `json:"api_key"`
}

// SetLLMKey stores the Gemini key in the OS keychain and rebuilds the
// sources so the LLM source picks it up.
func (h SecretsHandler) SetLLMKey(w http.ResponseWriter, r *http.Request) {
	var req setAPIKeyReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := secrets.SetLLMAPIKey(req.APIKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keychain", "failed to store api key: "+err.Error())
		return
	}
	h.reload()
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteLLMKey(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteLLMAPIKey(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keychain", "failed to delete api key: "+err.Error())
		return
	}
	h.reload()
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) reload() {
	if h.d.Reload == nil || h.d.CfgVal == nil {
		return
	}
	if cfg, ok := h.d.CfgVal.Load().(config.Config); ok {
		h.d.Reload(cfg)
	}
}
