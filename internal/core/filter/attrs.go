package filter

// Attrs names the feature properties the date gate reads
type Attrs struct {
	ID           string `json:"id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	StartDecDate string `json:"start_decdate"`
	EndDecDate   string `json:"end_decdate"`
}

// DefaultAttrs are the OpenHistoricalMap vector tile property names
func DefaultAttrs() Attrs {
	return Attrs{
		ID:           "osm_id",
		StartDate:    "start_date",
		EndDate:      "end_date",
		StartDecDate: "start_decdate",
		EndDecDate:   "end_decdate",
	}
}

// Or fills empty names from the defaults
func (a Attrs) Or() Attrs {
	d := DefaultAttrs()
	if a.ID == "" {
		a.ID = d.ID
	}
	if a.StartDate == "" {
		a.StartDate = d.StartDate
	}
	if a.EndDate == "" {
		a.EndDate = d.EndDate
	}
	if a.StartDecDate == "" {
		a.StartDecDate = d.StartDecDate
	}
	if a.EndDecDate == "" {
		a.EndDecDate = d.EndDecDate
	}
	return a
}
