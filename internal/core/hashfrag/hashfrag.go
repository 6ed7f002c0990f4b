// Package hashfrag encodes map viewport and time slider state in a URL fragment
//
//	#<zoom>/<lat>/<lng>/<year>,<lower>-<upper>
//	#15.600/48.57240/7.81240/1850,-4000-2019
package hashfrag

import (
	"regexp"
	"strconv"
	"strings"
)

// View is the viewport part of a fragment
type View struct {
	Zoom float64 `json:"zoom"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// State is a full fragment
type State struct {
	View
	Year  int `json:"year"`
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

var (
	fullRe = regexp.MustCompile(`^#(\d+\.?\d+)/(-?\d+\.\d+)/(-?\d+\.\d+)/(-?\d+),(-?\d+)-(-?\d+)`)
	viewRe = regexp.MustCompile(`^#(\d+\.?\d+)/(-?\d+\.\d+)/(-?\d+\.\d+)/`)
)

// Parse reads a full fragment; ok is false when s does not match
func Parse(s string) (st State, ok bool) {
	m := fullRe.FindStringSubmatch(s)
	if m == nil {
		return State{}, false
	}
	v, ok := view(m[1:4])
	if !ok {
		return State{}, false
	}
	ints := [3]int{}
	for i, g := range m[4:7] {
		n, err := strconv.Atoi(g)
		if err != nil {
			return State{}, false
		}
		ints[i] = n
	}
	return State{View: v, Year: ints[0], Lower: ints[1], Upper: ints[2]}, true
}

// ParseView reads only zoom, lat and lng, as used to seed a map before the
// time slider exists
func ParseView(s string) (View, bool) {
	m := viewRe.FindStringSubmatch(s)
	if m == nil {
		return View{}, false
	}
	return view(m[1:4])
}

func view(g []string) (View, bool) {
	var f [3]float64
	for i, s := range g {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return View{}, false
		}
		f[i] = v
	}
	return View{Zoom: f[0], Lat: f[1], Lng: f[2]}, true
}

// Format renders st with three decimals of zoom and five of lat/lng
func Format(st State) string {
	var b strings.Builder
	b.Grow(48)
	b.WriteByte('#')
	b.WriteString(strconv.FormatFloat(st.Zoom, 'f', 3, 64))
	b.WriteByte('/')
	b.WriteString(strconv.FormatFloat(st.Lat, 'f', 5, 64))
	b.WriteByte('/')
	b.WriteString(strconv.FormatFloat(st.Lng, 'f', 5, 64))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(st.Year))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(st.Lower))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(st.Upper))
	return b.String()
}
