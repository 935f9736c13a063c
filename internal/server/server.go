// Package server serves the interactive dashboard page and its JSON API.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 10 * time.Second

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// pageData feeds the dashboard template.
type pageData struct {
	Title       string
	MinYear     int
	MaxYear     int
	KPIs        []string
	Volumes     []schema.VolumeType
	Placeholder string
	NoEvents    string
}

// noEventsText replaces the events list when metrics are selected but no event falls in range.
const noEventsText = "No historical events in this range"

// errorBody is the JSON body of every 4xx and 5xx API response.
type errorBody struct {
	Error string `json:"error"`
}

// Server routes dashboard requests to an engine.
type Server struct {
	engine *core.Engine
	router *mux.Router
}

// New builds the router for the engine's dataset.
func New(engine *core.Engine) *Server {
	s := &Server{engine: engine, router: mux.NewRouter()}

	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/outputs", s.handleOutputs).Methods(http.MethodGet)
	api.HandleFunc("/outputs/{name}", s.handleOutput).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/changed", s.handleChanged).Methods(http.MethodGet)
	api.HandleFunc("/records", s.handleRecords).Methods(http.MethodGet)

	s.router.Use(logRequests)
	return s
}

// Handler returns the HTTP handler of the dashboard.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Warm fills the figure cache with the default selection without logging views.
func (s *Server) Warm(ctx context.Context) error {
	_, err := s.engine.Dashboard(core.WithSkipViewLog(ctx), schema.DefaultSelection())
	return err
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	contract.LogInfo("🛫 Serving dashboard on http://%s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	contract.LogInfo("Shutting down dashboard server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	ds := s.engine.Dataset()
	data := pageData{
		Title:       "Bologna Airport Traffic Dashboard",
		MinYear:     ds.FirstYear(),
		MaxYear:     ds.LastYear(),
		KPIs:        schema.KPILabels(ds.KPIs),
		Volumes:     []schema.VolumeType{schema.PassengerVolume, schema.CargoVolume},
		Placeholder: core.PlaceholderText,
		NoEvents:    noEventsText,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		contract.LogWarn("Dashboard page render failed", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "dataset_sha256": s.engine.Dataset().Hash})
}

func (s *Server) handleOutputs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, core.Outputs())
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	name := schema.OutputName(mux.Vars(r)["name"])
	if _, ok := schema.ValidOutputNames[name]; !ok {
		writeError(w, http.StatusNotFound, "unknown output '"+string(name)+"'")
		return
	}
	sel, err := ParseSelection(r.URL.Query(), s.engine.Dataset().KPIs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engine.Output(r.Context(), sel, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.Query(), s.engine.Dataset().KPIs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dash, err := s.engine.Dashboard(r.Context(), sel)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// handleChanged returns only the outputs that depend on the input named by signal.
func (s *Server) handleChanged(w http.ResponseWriter, r *http.Request) {
	signal, err := schema.ParseSignal(r.URL.Query().Get("signal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sel, err := ParseSelection(r.URL.Query(), s.engine.Dataset().KPIs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.engine.Changed(r.Context(), sel, signal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleRecords(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Dataset().Records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contract.LogWarn("JSON response encoding failed", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
