// Package http exposes the timeslider control of one session over JSON
package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"

	"timeslider/internal/core/daterange"
	"timeslider/internal/modkit/httpkit"
	perr "timeslider/internal/platform/errors"
	"timeslider/internal/services/timeslider/domain"
	"timeslider/internal/services/timeslider/service"
)

// MaxDocumentBytes bounds style and GeoJSON request bodies
const MaxDocumentBytes = 8 << 20

type handlers struct {
	s *service.Session
}

// Register mounts the timeslider routes
func Register(r httpkit.Router, s *service.Session) {
	h := &handlers{s: s}

	httpkit.Get(r, "/state", h.state)
	httpkit.PutJSON(r, "/date", h.setDate)
	httpkit.PostJSON(r, "/forward", h.forward, httpkit.OptionalBody())
	httpkit.PostJSON(r, "/back", h.back, httpkit.OptionalBody())
	httpkit.PutJSON(r, "/range", h.setRange)
	httpkit.PostJSON(r, "/jump", h.jump)
	httpkit.Get(r, "/widget", h.widget)
	httpkit.Get(r, "/layers", h.layers)
	httpkit.Get(r, "/layers/{id}/filter", h.layerFilter)
	httpkit.Get(r, "/style", h.style)
	r.Put("/style", httpkit.Call(h.reloadStyle))
	httpkit.Get(r, "/hash", h.hash)
	httpkit.PutJSON(r, "/hash", h.navigate)
	r.Post("/features", httpkit.Call(h.features))
}

// run executes fn on the session scheduler; a stopped loop maps to Unavailable
func (h *handlers) run(r *http.Request, fn func() (any, error)) (any, error) {
	var (
		out any
		err error
	)
	if derr := h.s.Do(r.Context(), func() { out, err = fn() }); derr != nil {
		if _, ok := perr.As(derr); ok {
			return nil, derr
		}
		return nil, perr.Wrapf(derr, perr.ErrorCodeUnavailable, "session %s", h.s.ID())
	}
	return out, err
}

// snapshot runs fn then reports the state
func (h *handlers) snapshot(r *http.Request, fn func() error) (any, error) {
	return h.run(r, func() (any, error) {
		if err := fn(); err != nil {
			return nil, err
		}
		return h.s.Snapshot(), nil
	})
}

// swagger:route GET /timeslider/state Timeslider timesliderState
// @Summary Current date, range, limit and fragment
// @Tags Timeslider
// @Produce json
// @Success 200 type domain.StateView ok
// @Router /timeslider/state [get]
func (h *handlers) state(r *http.Request) (any, error) {
	return h.snapshot(r, func() error { return nil })
}

// swagger:route PUT /timeslider/date Timeslider timesliderDate
// @Summary Select a year, either as a number or as typed text
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param body body domain.DateInput true "year or input"
// @Success 200 type domain.StateView ok
// @Router /timeslider/date [put]
func (h *handlers) setDate(r *http.Request, in domain.DateInput) (any, error) {
	return h.snapshot(r, func() error {
		if in.Year != nil {
			h.s.Control().SetDate(*in.Year)
		} else {
			h.s.Control().SetDateInput(in.Input)
		}
		return nil
	})
}

// swagger:route POST /timeslider/forward Timeslider timesliderForward
// @Summary Step the date forward; years defaults to 1
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param body body domain.StepInput false "years"
// @Success 200 type domain.StateView ok
// @Router /timeslider/forward [post]
func (h *handlers) forward(r *http.Request, in domain.StepInput) (any, error) {
	return h.snapshot(r, func() error {
		h.s.Control().YearForward(in.Years)
		return nil
	})
}

// swagger:route POST /timeslider/back Timeslider timesliderBack
// @Summary Step the date back; years defaults to 1
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param body body domain.StepInput false "years"
// @Success 200 type domain.StateView ok
// @Router /timeslider/back [post]
func (h *handlers) back(r *http.Request, in domain.StepInput) (any, error) {
	return h.snapshot(r, func() error {
		h.s.Control().YearBack(in.Years)
		return nil
	})
}

// swagger:route PUT /timeslider/range Timeslider timesliderRange
// @Summary Edit the range; a missing bound is kept
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param body body domain.RangeInput true "lower and or upper"
// @Success 200 type domain.StateView ok
// @Failure 422 type httpkit.Envelope "range collapses"
// @Router /timeslider/range [put]
func (h *handlers) setRange(r *http.Request, in domain.RangeInput) (any, error) {
	return h.snapshot(r, func() error {
		ctl := h.s.Control()
		var ok bool
		switch {
		case in.Lower != nil && in.Upper != nil:
			ok = ctl.SetRange(daterange.Range{Lower: *in.Lower, Upper: *in.Upper})
		case in.Lower != nil:
			ok = ctl.SetRangeLower(*in.Lower)
		default:
			ok = ctl.SetRangeUpper(*in.Upper)
		}
		if !ok {
			return perr.WithField(perr.InvalidArgf("range is empty after clipping to the limit"), "range")
		}
		return nil
	})
}

// swagger:route POST /timeslider/jump Timeslider timesliderJump
// @Summary Select a year and narrow the range around it
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param body body domain.JumpInput true "year and span"
// @Success 200 type domain.StateView ok
// @Router /timeslider/jump [post]
func (h *handlers) jump(r *http.Request, in domain.JumpInput) (any, error) {
	return h.snapshot(r, func() error {
		if !h.s.Control().JumpTo(*in.Year, in.Span) {
			return perr.WithField(perr.InvalidArgf("no range around %d fits the limit", *in.Year), "year")
		}
		return nil
	})
}

// swagger:route GET /timeslider/widget Timeslider timesliderWidget
// @Summary What the slider control renders right now
// @Tags Timeslider
// @Produce json
// @Success 200 type domain.Widget ok
// @Router /timeslider/widget [get]
func (h *handlers) widget(r *http.Request) (any, error) {
	return h.run(r, func() (any, error) { return h.s.Control().Widget(), nil })
}

// swagger:route GET /timeslider/layers Timeslider timesliderLayers
// @Summary Outcome of the last attach per layer
// @Tags Timeslider
// @Produce json
// @Success 200 type domain.AttachReport ok
// @Router /timeslider/layers [get]
func (h *handlers) layers(r *http.Request) (any, error) {
	return h.run(r, func() (any, error) { return h.s.Control().Report(), nil })
}

// swagger:route GET /timeslider/layers/{id}/filter Timeslider timesliderLayerFilter
// @Summary Live filter of one layer
// @Tags Timeslider
// @Produce json
// @Param id path string true "layer id"
// @Success 200 type domain.LayerFilter ok
// @Failure 404 type httpkit.Envelope "unknown layer"
// @Router /timeslider/layers/{id}/filter [get]
func (h *handlers) layerFilter(r *http.Request) (any, error) {
	id := chi.URLParam(r, "id")
	return h.run(r, func() (any, error) { return h.s.Control().LayerFilter(id) })
}

// swagger:route GET /timeslider/style Timeslider timesliderStyle
// @Summary The style document with the live filters
// @Tags Timeslider
// @Produce json,application/yaml
// @Param format query string false "json or yaml"
// @Success 200 {object} object ok
// @Router /timeslider/style [get]
func (h *handlers) style(r *http.Request) (any, error) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "json" && format != "yaml" {
		return nil, perr.WithField(perr.InvalidArgf("format must be json or yaml"), "format")
	}
	return h.run(r, func() (any, error) {
		if format == "yaml" {
			doc, err := h.s.Map().DocumentYAML()
			if err != nil {
				return nil, err
			}
			return httpkit.Bytes("application/yaml", doc), nil
		}
		doc, err := h.s.Map().Document()
		if err != nil {
			return nil, err
		}
		return httpkit.Bytes("application/json; charset=utf-8", doc), nil
	})
}

// swagger:route PUT /timeslider/style Timeslider timesliderReloadStyle
// @Summary Swap the style document; date and range carry over
// @Tags Timeslider
// @Accept json,application/yaml
// @Produce json
// @Success 200 type domain.AttachReport ok
// @Failure 422 type httpkit.Envelope "document rejected, old style stays"
// @Router /timeslider/style [put]
func (h *handlers) reloadStyle(r *http.Request) (any, error) {
	doc, err := readBody(r)
	if err != nil {
		return nil, err
	}
	return h.run(r, func() (any, error) {
		if err := h.s.ReloadStyle(doc); err != nil {
			return nil, err
		}
		return h.s.Control().Report(), nil
	})
}

// swagger:route GET /timeslider/hash Timeslider timesliderHash
// @Summary The URL fragment
// @Tags Timeslider
// @Produce json
// @Success 200 type domain.HashView ok
// @Router /timeslider/hash [get]
func (h *handlers) hash(r *http.Request) (any, error) {
	return h.run(r, func() (any, error) { return domain.HashView{Hash: h.s.Location().Hash()}, nil })
}

// swagger:route PUT /timeslider/hash Timeslider timesliderNavigate
// @Summary Navigate to a fragment, as a user editing the address bar would
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param body body domain.HashInput true "fragment"
// @Success 200 type domain.HashView ok
// @Router /timeslider/hash [put]
func (h *handlers) navigate(r *http.Request, in domain.HashInput) (any, error) {
	return h.run(r, func() (any, error) {
		h.s.Location().Navigate(in.Hash)
		return domain.HashView{Hash: h.s.Location().Hash()}, nil
	})
}

// swagger:route POST /timeslider/features Timeslider timesliderFeatures
// @Summary Keep the GeoJSON features a layer's live filter shows
// @Tags Timeslider
// @Accept json
// @Produce json
// @Param layer query string true "layer id"
// @Success 200 {object} object "FeatureCollection"
// @Router /timeslider/features [post]
func (h *handlers) features(r *http.Request) (any, error) {
	layer := r.URL.Query().Get("layer")
	if layer == "" {
		return nil, perr.WithField(perr.InvalidArgf("layer is required"), "layer")
	}
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "invalid GeoJSON")
	}
	return h.run(r, func() (any, error) {
		out, err := h.s.Features(layer, fc)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

func readBody(r *http.Request) ([]byte, error) {
	defer func() { _ = r.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read body")
	}
	if len(body) > MaxDocumentBytes {
		return nil, perr.InvalidArgf("body exceeds %d bytes", MaxDocumentBytes)
	}
	if len(body) == 0 {
		return nil, perr.JSONErrf("empty body")
	}
	return body, nil
}
