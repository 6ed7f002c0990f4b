package service

import (
	"strings"

	"github.com/paulmach/orb/geojson"

	"timeslider/internal/core/filter"
	perr "timeslider/internal/platform/errors"
)

// FilterFeatures keeps the features expr accepts. Besides their properties,
// features expose "$type" (Point, LineString or Polygon) and "$id" to the filter.
func FilterFeatures(expr filter.Expr, fc *geojson.FeatureCollection) (*geojson.FeatureCollection, error) {
	out := geojson.NewFeatureCollection()
	if fc == nil {
		return out, nil
	}
	for i, f := range fc.Features {
		if f == nil {
			continue
		}
		ok, err := filter.Eval(expr, featureProps(f))
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "feature %d", i)
		}
		if ok {
			out.Append(f)
		}
	}
	return out, nil
}

func featureProps(f *geojson.Feature) map[string]any {
	props := make(map[string]any, len(f.Properties)+2)
	for k, v := range f.Properties {
		props[k] = v
	}
	if f.Geometry != nil {
		props["$type"] = legacyType(f.Geometry.GeoJSONType())
	}
	if f.ID != nil {
		props["$id"] = f.ID
	}
	return props
}

// legacyType folds the Multi* types into their base type
func legacyType(t string) string {
	return strings.TrimPrefix(t, "Multi")
}
