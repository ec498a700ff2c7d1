package dto

type FileResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Size    int    `json:"size_bytes"`
}

type ListFilesResponse struct {
	Files []FileResponse `json:"files"`
}

type WaypointResponse struct {
	Lon       float64  `json:"lon"`
	Lat       float64  `json:"lat"`
	Name      string   `json:"name,omitempty"`
	Elevation *float64 `json:"ele,omitempty"`
}

// DocumentResponse summarizes a stored document for the map view.
// Coordinates are the control points as [lon, lat] pairs; Route is the full geometry.
type DocumentResponse struct {
	Name           string             `json:"name"`
	Profile        string             `json:"profile"`
	Coordinates    [][]float64        `json:"coordinates"`
	Waypoints      []WaypointResponse `json:"waypoints"`
	Route          [][]float64        `json:"route"`
	RoutePoints    int                `json:"route_points"`
	DistanceMeters float64            `json:"distance_m"`
}

type ProfilesResponse struct {
	Profiles []string `json:"profiles"`
	Default  string   `json:"default"`
}
