// Package repo holds the style document the time slider rewrites: an in-memory
// rendering collaborator over a Mapbox GL style, loaded from JSON or YAML
package repo

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"sigs.k8s.io/yaml"

	"timeslider/internal/core/filter"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	"timeslider/internal/services/timeslider/domain"
)

// StyleMap implements domain.Map over a decoded style document. Unknown style
// keys survive a round trip. Values are deep-copied in and out.
type StyleMap struct {
	mu     sync.RWMutex
	doc    map[string]any
	layers []map[string]any
	index  map[string]int
	made   map[string]bool // layers whose layout object SetLayoutProperty created
	center orb.Point
	zoom   float64

	log *logger.Logger
}

var _ domain.Map = (*StyleMap)(nil)

// Decode parses a JSON or YAML style document and checks its layer list
func Decode(data []byte) (map[string]any, error) {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "style is neither JSON nor YAML")
	}
	var doc map[string]any
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "style must be an object")
	}
	if doc == nil {
		return nil, perr.InvalidArgf("style is empty")
	}
	if _, err := layerList(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// New builds a StyleMap from raw style bytes
func New(data []byte, log *logger.Logger) (*StyleMap, error) {
	if log == nil {
		log = logger.Named("stylemap")
	}
	m := &StyleMap{log: log}
	if err := m.Replace(data); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads a style file
func Load(path string, log *logger.Logger) (*StyleMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "read style %s", path)
	}
	return New(data, log)
}

// Replace swaps in a new document and reseeds the viewport from it
func (m *StyleMap) Replace(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	layers, _ := layerList(doc)
	index := make(map[string]int, len(layers))
	for i, l := range layers {
		index[l["id"].(string)] = i
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	m.layers = layers
	m.index = index
	m.made = map[string]bool{}
	m.center = orb.Point{}
	if c, ok := doc["center"].([]any); ok && len(c) == 2 {
		lng, _ := c[0].(float64)
		lat, _ := c[1].(float64)
		m.center = orb.Point{lng, lat}
	}
	m.zoom, _ = doc["zoom"].(float64)
	return nil
}

// layerList validates doc["layers"] and returns the layer objects in order
func layerList(doc map[string]any) ([]map[string]any, error) {
	raw, ok := doc["layers"].([]any)
	if !ok {
		return nil, perr.InvalidArgf("style has no layers array")
	}
	out := make([]map[string]any, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		l, ok := r.(map[string]any)
		if !ok {
			return nil, perr.InvalidArgf("style layer %d is not an object", i)
		}
		id, ok := l["id"].(string)
		if !ok || id == "" {
			return nil, perr.InvalidArgf("style layer %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, perr.InvalidArgf("style layer id %q is not unique", id)
		}
		seen[id] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

// Filter implements domain.Map
func (m *StyleMap) Filter(layerID string) (filter.Expr, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[layerID]
	if !ok {
		return nil, false
	}
	return filter.Clone(m.layers[i]["filter"]), true
}

// SetFilter implements domain.Map
func (m *StyleMap) SetFilter(layerID string, expr filter.Expr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[layerID]
	if !ok {
		m.log.Debug().Str("layer", layerID).Msg("set filter on unknown layer, ignoring")
		return
	}
	if expr == nil {
		delete(m.layers[i], "filter")
		return
	}
	m.layers[i]["filter"] = filter.Clone(expr)
}

// Style implements domain.Map
func (m *StyleMap) Style() domain.Style {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := domain.Style{Sources: map[string]any{}, Layers: make([]domain.LayerInfo, 0, len(m.layers))}
	if src, ok := m.doc["sources"].(map[string]any); ok {
		st.Sources = filter.Clone(src).(map[string]any)
	}
	for _, l := range m.layers {
		info := domain.LayerInfo{ID: l["id"].(string), Filter: filter.Clone(l["filter"])}
		info.Source, _ = l["source"].(string)
		if lay, ok := l["layout"].(map[string]any); ok {
			info.Layout = filter.Clone(lay).(map[string]any)
		}
		st.Layers = append(st.Layers, info)
	}
	return st
}

// SetLayoutProperty implements domain.Map. A nil value removes key, and a
// layout object this method created is dropped again once it is empty.
func (m *StyleMap) SetLayoutProperty(layerID, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[layerID]
	if !ok {
		m.log.Debug().Str("layer", layerID).Str("key", key).Msg("set layout on unknown layer, ignoring")
		return
	}
	lay, ok := m.layers[i]["layout"].(map[string]any)
	if value == nil {
		if !ok {
			return
		}
		delete(lay, key)
		if len(lay) == 0 && m.made[layerID] {
			delete(m.layers[i], "layout")
			delete(m.made, layerID)
		}
		return
	}
	if !ok {
		lay = map[string]any{}
		m.layers[i]["layout"] = lay
		m.made[layerID] = true
	}
	lay[key] = filter.Clone(value)
}

// Center implements domain.Map
func (m *StyleMap) Center() orb.Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.center
}

// Zoom implements domain.Map
func (m *StyleMap) Zoom() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zoom
}

// SetCenter implements domain.Map; the document's center follows
func (m *StyleMap) SetCenter(p orb.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = p
	m.doc["center"] = []any{p.Lon(), p.Lat()}
}

// SetZoom implements domain.Map; the document's zoom follows
func (m *StyleMap) SetZoom(z float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = z
	m.doc["zoom"] = z
}

// Document renders the current style as JSON
func (m *StyleMap) Document() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return json.Marshal(m.doc)
}

// DocumentYAML renders the current style as YAML
func (m *StyleMap) DocumentYAML() ([]byte, error) {
	js, err := m.Document()
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(js)
}
