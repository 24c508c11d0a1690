// Package server exposes the engine's control surface and live snapshot
// stream over HTTP, mirroring the shape of the teacher's server.Server
// (index page + websocket) but routed with gorilla/mux and generalized to
// many concurrent websocket clients instead of one (§6 ADDED HTTP/WebSocket
// surface).
package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"trafficsim/engine"
)

// Server serves the index page, the control API, a /metrics gauge page, and
// the /ws/snapshots websocket stream, all backed by a single *engine.Engine.
type Server struct {
	addr string
	eng  *engine.Engine
}

// NewServer returns a server bound to addr, driving eng.
func NewServer(addr string, eng *engine.Engine) *Server {
	return &Server{addr: addr, eng: eng}
}

// Serve blocks, running the HTTP server until it errors.
func (s *Server) Serve() error {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws/snapshots", s.serveSnapshotStream).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.serveMetrics).Methods(http.MethodGet)
	r.HandleFunc("/api/step", s.serveStep).Methods(http.MethodPost)
	r.HandleFunc("/api/stop", s.serveStop).Methods(http.MethodPost)
	r.HandleFunc("/api/status", s.serveStatus).Methods(http.MethodGet)

	if err := http.ListenAndServe(s.addr, r); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

var indexTemplate = template.Must(template.New("index").Parse(`
<!DOCTYPE html>
<html>
<head><link rel="icon" href="data:,"></head>
<body>
<p>step {{.Step}} of {{.MaxSteps}}, t={{.TimeElapsed}}s</p>
<script>
	const ws = new WebSocket("ws://" + location.host + "/ws/snapshots");
	ws.onmessage = function(event) {
		console.log(JSON.parse(event.data));
	};
</script>
</body>
</html>
`))

type indexData struct {
	Step        int
	MaxSteps    int
	TimeElapsed float64
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	data := indexData{
		Step:        s.eng.CurrentStep(),
		MaxSteps:    s.eng.MaxSteps(),
		TimeElapsed: s.eng.TimeElapsed(),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// serveSnapshotStream upgrades the request and streams completed ticks'
// snapshot.TickUpdate values as JSON until the client disconnects. Updates
// arriving within pubResolution of the last one sent are dropped, so not
// every tick reaches the client.
func (s *Server) serveSnapshotStream(w http.ResponseWriter, r *http.Request) {
	updates, cancel := s.eng.Subscribe()
	defer cancel()

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer ws.Close()

	if err := streamSnapshots(r.Context(), updates, ws); err != nil {
		log.Println("snapshot stream:", err)
	}
}

func (s *Server) serveMetrics(w http.ResponseWriter, r *http.Request) {
	meanVelocity, vehicleCount, pedestrianCount, step := s.eng.Gauges()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "trafficsim_mean_velocity %f\n", meanVelocity)
	fmt.Fprintf(w, "trafficsim_vehicle_count %f\n", vehicleCount)
	fmt.Fprintf(w, "trafficsim_pedestrian_count %f\n", pedestrianCount)
	fmt.Fprintf(w, "trafficsim_step %f\n", step)
}

type stepRequest struct {
	N    int     `json:"n"`
	TGap float64 `json:"t_gap"`
}

func (s *Server) serveStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.eng.Step(req.N, req.TGap); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.serveStatus(w, r)
}

func (s *Server) serveStop(w http.ResponseWriter, r *http.Request) {
	s.eng.Stop()
	s.serveStatus(w, r)
}

type statusResponse struct {
	CurrentStep int     `json:"current_step"`
	MaxSteps    int     `json:"max_steps"`
	TimeElapsed float64 `json:"time_elapsed"`
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		CurrentStep: s.eng.CurrentStep(),
		MaxSteps:    s.eng.MaxSteps(),
		TimeElapsed: s.eng.TimeElapsed(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
