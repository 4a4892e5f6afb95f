package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"jobfinder-engine/internal/config"
)

type ConfigHandler struct {
	d Deps
}

func (h ConfigHandler) current() config.Config {
	cfg, _ := h.d.CfgVal.Load().(config.Config)
	return cfg
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.current())
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "trailing data")
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// structured so the UI can list them
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.d.UserCfgPath, normalized); err != nil {
		h.d.logger().Printf("level=error msg=\"config save\" err=%v", err)
		writeErr(w, r, err)
		return
	}

	saved, err := h.d.LoadCfg()
	if err != nil {
		h.d.logger().Printf("level=error msg=\"config reload\" err=%v", err)
		writeErr(w, r, err)
		return
	}
	h.d.CfgVal.Store(saved)
	if h.d.Reload != nil {
		h.d.Reload(saved)
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.d.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.current())
	WriteJSON(w, http.StatusOK, vr)
}
