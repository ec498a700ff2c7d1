package api

import (
	"gpx-route-editor/internal/api/handlers"
	"gpx-route-editor/internal/ports"
	"gpx-route-editor/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers only see the file service and the repository port.
func NewRouter(files *services.GpxFileService, repo ports.GpxFileRepository, maxUpload int64) http.Handler {
	r := mux.NewRouter()

	health := &handlers.HealthHandler{Repo: repo}
	fileHandler := &handlers.FileHandler{Files: files, MaxUpload: maxUpload}
	pointHandler := &handlers.PointHandler{Files: files}

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/profiles", handlers.Profiles).Methods(http.MethodGet)

	r.HandleFunc("/files", fileHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/upload", fileHandler.Upload).Methods(http.MethodPost)
	r.HandleFunc("/create_gpx", fileHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/view/{filename}", fileHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/geojson/{filename}", fileHandler.GeoJSON).Methods(http.MethodGet)
	r.HandleFunc("/downloads/{filename}", fileHandler.Download).Methods(http.MethodGet)
	r.HandleFunc("/delete/{filename}", fileHandler.Delete).Methods(http.MethodGet, http.MethodDelete)

	r.HandleFunc("/set_start/{filename}", pointHandler.SetStart).Methods(http.MethodPost)
	r.HandleFunc("/set_end/{filename}", pointHandler.SetEnd).Methods(http.MethodPost)
	r.HandleFunc("/add_point/{filename}", pointHandler.AddPoint).Methods(http.MethodPost)
	r.HandleFunc("/append_point/{filename}", pointHandler.AppendPoint).Methods(http.MethodPost)
	r.HandleFunc("/move_point/{filename}", pointHandler.MovePoint).Methods(http.MethodPost)
	r.HandleFunc("/remove_point/{filename}", pointHandler.RemovePoint).Methods(http.MethodPost)
	r.HandleFunc("/update_profile/{filename}", pointHandler.UpdateProfile).Methods(http.MethodPost)

	r.Use(metricsMiddleware)

	return requestIDMiddleware(loggingMiddleware(r))
}
