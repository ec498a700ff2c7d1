package handlers

import (
	"errors"
	"gpx-route-editor/internal/api/dto"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/gpxdoc"
	"gpx-route-editor/internal/services"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tkrajina/gpxgo/gpx"
)

// FileHandler exposes file storage endpoints: listing, upload, creation,
// viewing, export and deletion.
type FileHandler struct {
	Files     *services.GpxFileService
	MaxUpload int64
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.Files.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListFilesResponse{Files: make([]dto.FileResponse, 0, len(files))}
	for _, f := range files {
		res.Files = append(res.Files, fileResponse(f))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Upload accepts a multipart form with a "file" part and an optional "profile" field.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	}

	if err := r.ParseMultipartForm(h.maxMemory()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeError(w, r, http.StatusBadRequest, "validation_error", "expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", "could not read uploaded file")
		return
	}

	f, err := h.Files.Upload(r.Context(), header.Filename, r.FormValue("profile"), data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, fileResponse(f))
}

// Create stores an empty document from form fields "name" and "profile".
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := h.Files.Create(r.Context(), r.FormValue("name"), r.FormValue("profile"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, fileResponse(f))
}

func (h *FileHandler) View(w http.ResponseWriter, r *http.Request) {
	f, doc, err := h.Files.Load(r.Context(), mux.Vars(r)["filename"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, documentResponse(f, doc))
}

func (h *FileHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	f, doc, err := h.Files.Load(r.Context(), mux.Vars(r)["filename"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out, err := gpxdoc.ToGeoJSON(doc, f.Name, f.Profile)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Download returns the stored bytes as an attachment.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	f, err := h.Files.Get(r.Context(), mux.Vars(r)["filename"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	if err := h.Files.Delete(r.Context(), name); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"deleted": name})
}

func Profiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ProfilesResponse{Profiles: domain.Profiles, Default: domain.DefaultProfile})
}

func (h *FileHandler) maxMemory() int64 {
	if h.MaxUpload > 0 {
		return h.MaxUpload
	}
	return 10 << 20
}

func fileResponse(f *domain.GpxFile) dto.FileResponse {
	return dto.FileResponse{ID: f.ID, Name: f.Name, Profile: f.Profile, Size: len(f.Data)}
}

func documentResponse(f *domain.GpxFile, doc *gpx.GPX) dto.DocumentResponse {
	res := dto.DocumentResponse{
		Name:           f.Name,
		Profile:        f.Profile,
		Coordinates:    [][]float64{},
		Waypoints:      make([]dto.WaypointResponse, 0, len(doc.Waypoints)),
		Route:          [][]float64{},
		DistanceMeters: gpxdoc.RouteLengthMeters(doc),
	}

	// A fresh file has no route yet; it still views fine.
	if coords, err := gpxdoc.ExtractCoordinates(doc); err == nil {
		for _, c := range coords {
			res.Coordinates = append(res.Coordinates, c.CoordsToList())
		}
	}

	for _, wpt := range doc.Waypoints {
		wr := dto.WaypointResponse{Lon: wpt.Longitude, Lat: wpt.Latitude, Name: wpt.Name}
		if wpt.Elevation.NotNull() {
			ele := wpt.Elevation.Value()
			wr.Elevation = &ele
		}
		res.Waypoints = append(res.Waypoints, wr)
	}

	for _, p := range gpxdoc.RouteLineString(doc) {
		res.Route = append(res.Route, []float64{p.Lon(), p.Lat()})
	}
	res.RoutePoints = len(res.Route)

	return res
}
