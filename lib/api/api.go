package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fosdem/glconvert/lib/api/docs"
	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/metrics"
	"github.com/fosdem/glconvert/lib/stats"
)

type Api struct {
	srv http.Server
	mux *http.ServeMux
	cfg *config.ApiCfg
	log *slog.Logger

	Stats *stats.Stats

	// set by POST /api/kill, polled by the conversion loop
	ShutdownRequested atomic.Bool

	wsMutex   sync.Mutex
	wsClients map[*websocket.Conn]bool

	mediaMutex sync.Mutex
	lastInput  *encdec.Frame
	lastOutput *encdec.Frame
}

func New(cfg *config.ApiCfg, st *stats.Stats) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.log = slog.With("module", "api")
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]bool)
	a.Stats = st
	a.routes()
	return a
}

func (a *Api) routes() {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("/api/kill", a.suicide)
	a.mux.HandleFunc("/api/stats", a.getStats)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.HandleFunc("/api/media/{frame}", a.handleMedia)
	a.mux.HandleFunc("/api/media/{frame}/{format}", a.handleMedia)
	a.mux.Handle("/metrics", metrics.Handler())
	a.mux.Handle("/swagger/", httpSwagger.WrapHandler)
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

// SetFrames keeps copies of the most recent frame pair for /api/media.
func (a *Api) SetFrames(in *encdec.Frame, out *encdec.Frame) {
	inCopy := *in
	inCopy.Data = append([]byte(nil), in.Data...)
	outCopy := *out
	outCopy.Data = append([]byte(nil), out.Data...)

	a.mediaMutex.Lock()
	defer a.mediaMutex.Unlock()
	a.lastInput = &inCopy
	a.lastOutput = &outCopy
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Stop converting and exit
// @Router		/api/kill [post]
// @Tags		base
// @Success	200
// @Failure	405	{string}	string	"Only POST is supported"
func (a *Api) suicide(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Invalid method, only POST supported", http.StatusMethodNotAllowed)
		return
	}
	a.log.Info("Shutting down as per api request")
	a.ShutdownRequested.Store(true)
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.log.Warn("Could not write response", "err", err)
		return
	}
}

// @Summary	Conversion statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

func ServeInBackground(cfg *config.ApiCfg, st *stats.Stats) *Api {
	var theApi *Api
	if cfg != nil {
		theApi = New(cfg, st)

		theApi.log.Info(fmt.Sprintf("Starting web server on %s", cfg.Bind))
		go func() {
			err := theApi.Serve()
			if err != nil {
				theApi.log.Error("Could not start web server", "err", err)
				os.Exit(1)
			}
		}()
	}
	return theApi
}
