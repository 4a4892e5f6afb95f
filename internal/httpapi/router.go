package httpapi

import "net/http"

// NewMux wires the routes. main wraps it with NewHandler.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Jobs
	jh := JobsHandler{d: d}
	mux.HandleFunc("GET /api/jobs/search/{source}", jh.Search)
	mux.HandleFunc("GET /api/jobs/mock", jh.Mock)
	mux.HandleFunc("GET /api/jobs", jh.List)
	mux.HandleFunc("POST /api/jobs", jh.Add)
	mux.HandleFunc("DELETE /api/jobs", jh.Clear)

	// Scrape
	if d.Poller != nil {
		sch := ScrapeHandler{d: d}
		mux.HandleFunc("GET /api/scrape/status", sch.Status)
		mux.HandleFunc("POST /api/scrape/run", sch.Run)
	}

	// Config
	if d.CfgVal != nil {
		ch := ConfigHandler{d: d}
		mux.HandleFunc("GET /api/config", ch.Get)
		mux.HandleFunc("PUT /api/config", LocalOnly(ch.Put))
		mux.HandleFunc("GET /api/config/path", ch.Path)
		mux.HandleFunc("GET /api/config/validate", ch.Validate)
	}

	// Secrets never leave the machine
	sh := SecretsHandler{d: d}
	mux.HandleFunc("POST /api/secrets/llm", LocalOnly(sh.SetLLMKey))
	mux.HandleFunc("DELETE /api/secrets/llm", LocalOnly(sh.DeleteLLMKey))

	// SSE events
	if d.Hub != nil {
		eh := EventsHandler{Hub: d.Hub}
		mux.HandleFunc("GET /api/events", eh.ServeSSE)
	}

	mux.HandleFunc("GET /health", HealthHandler{}.Health)
	mux.Handle("GET /", StaticHandler{Dir: d.StaticDir})

	return mux
}

func NewHandler(d Deps) http.Handler {
	logger := d.logger()
	return Chain(NewMux(d), RequestID, Recover(logger), AccessLog(logger), Cors)
}
