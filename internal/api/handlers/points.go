package handlers

import (
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/gpxdoc"
	"gpx-route-editor/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// PointHandler exposes the route editing endpoints. Points arrive as form fields
// "longitude" and "latitude"; moves add "new_longitude" and "new_latitude".
type PointHandler struct {
	Files *services.GpxFileService
}

type pointOp func(r *http.Request, name string, p domain.Coordinates) (*domain.GpxFile, error)

func (h *PointHandler) SetStart(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, func(r *http.Request, name string, p domain.Coordinates) (*domain.GpxFile, error) {
		return h.Files.SetStart(r.Context(), name, p)
	})
}

func (h *PointHandler) SetEnd(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, func(r *http.Request, name string, p domain.Coordinates) (*domain.GpxFile, error) {
		return h.Files.SetEnd(r.Context(), name, p)
	})
}

func (h *PointHandler) AddPoint(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, func(r *http.Request, name string, p domain.Coordinates) (*domain.GpxFile, error) {
		return h.Files.AddPoint(r.Context(), name, p)
	})
}

func (h *PointHandler) AppendPoint(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, func(r *http.Request, name string, p domain.Coordinates) (*domain.GpxFile, error) {
		return h.Files.AppendPoint(r.Context(), name, p)
	})
}

func (h *PointHandler) RemovePoint(w http.ResponseWriter, r *http.Request) {
	h.single(w, r, func(r *http.Request, name string, p domain.Coordinates) (*domain.GpxFile, error) {
		return h.Files.RemovePoint(r.Context(), name, p)
	})
}

func (h *PointHandler) MovePoint(w http.ResponseWriter, r *http.Request) {
	from, err := formCoordinates(r, "longitude", "latitude")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	to, err := formCoordinates(r, "new_longitude", "new_latitude")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	f, err := h.Files.MovePoint(r.Context(), mux.Vars(r)["filename"], from, to)
	h.respond(w, r, f, err)
}

// UpdateProfile refetches the route under the "profile" form field.
func (h *PointHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	f, err := h.Files.UpdateProfile(r.Context(), mux.Vars(r)["filename"], r.FormValue("profile"))
	h.respond(w, r, f, err)
}

func (h *PointHandler) single(w http.ResponseWriter, r *http.Request, op pointOp) {
	p, err := formCoordinates(r, "longitude", "latitude")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	f, err := op(r, mux.Vars(r)["filename"], p)
	h.respond(w, r, f, err)
}

func (h *PointHandler) respond(w http.ResponseWriter, r *http.Request, f *domain.GpxFile, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	doc, err := gpxdoc.Parse(f.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, documentResponse(f, doc))
}
