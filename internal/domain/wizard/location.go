package wizard

import (
	"strconv"
	"strings"
)

// Centro por defecto del mapa (Valdivia).
var DefaultCenter = LatLng{Lat: -39.8142, Lng: -73.2459}

const (
	DefaultZoom     = 13
	TileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution = "© OpenStreetMap contributors"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationPick es la única coordenada seleccionada. Cada pick la sobrescribe.
type LocationPick struct {
	point LatLng
	set   bool
}

func (p *LocationPick) Set(ll LatLng) {
	p.point = ll
	p.set = true
}

func (p LocationPick) Get() (LatLng, bool) {
	return p.point, p.set
}

// MapProvider es el mapa de teselas. Produce clics (ver Controller.MapClick).
type MapProvider interface {
	SetView(center LatLng, zoom int)
	AddTileLayer(url, attribution string)
	PlaceMarker(at LatLng)
	RemoveMarker()
}

// MapState es el MapProvider del lado servidor: guarda lo que el cliente
// debe dibujar.
type MapState struct {
	Initialized bool     `json:"initialized"`
	Center      *LatLng  `json:"center,omitempty"`
	Zoom        int      `json:"zoom,omitempty"`
	TileURL     string   `json:"tile_url,omitempty"`
	Attribution string   `json:"attribution,omitempty"`
	Markers     []LatLng `json:"markers"`
}

func (m *MapState) SetView(center LatLng, zoom int) {
	c := center
	m.Center = &c
	m.Zoom = zoom
	m.Initialized = true
}

func (m *MapState) AddTileLayer(url, attribution string) {
	m.TileURL = url
	m.Attribution = attribution
}

func (m *MapState) PlaceMarker(at LatLng) {
	m.Markers = append(m.Markers, at)
}

func (m *MapState) RemoveMarker() {
	if len(m.Markers) > 0 {
		m.Markers = m.Markers[:len(m.Markers)-1]
	}
}

// savedLocation lee coordenadas ya guardadas en el formulario.
func savedLocation(form FormData) (LatLng, bool) {
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(form.Value(FieldLatitude)), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(form.Value(FieldLongitude)), 64)
	if err1 != nil || err2 != nil {
		return LatLng{}, false
	}
	return LatLng{Lat: lat, Lng: lng}, true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
