package feed

import "io"

// Agency is a row of agency.txt.
type Agency struct {
	ID   string
	Name string
}

// Route is a row of routes.txt.
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
}

// ManualColor is a row of the curated colour override list.
type ManualColor struct {
	Line       string
	Background string
	Text       string
	Border     string
}

func ParseAgencies(r io.Reader) ([]Agency, error) {
	var agencies []Agency
	err := eachRow(r, "agency", func(row *row) {
		agencies = append(agencies, Agency{
			ID:   row.get("agency_id"),
			Name: row.get("agency_name"),
		})
	})
	if err != nil {
		return nil, err
	}
	return agencies, nil
}

func ParseRoutes(r io.Reader) ([]Route, error) {
	var routes []Route
	err := eachRow(r, "routes", func(row *row) {
		routes = append(routes, Route{
			ID:        row.get("route_id"),
			AgencyID:  row.get("agency_id"),
			ShortName: row.get("route_short_name"),
		})
	})
	if err != nil {
		return nil, err
	}
	return routes, nil
}

func ParseManualColors(r io.Reader) ([]ManualColor, error) {
	var colors []ManualColor
	err := eachRow(r, "colors_manual", func(row *row) {
		colors = append(colors, ManualColor{
			Line:       row.get("route_short_name"),
			Background: row.get("background_color"),
			Text:       row.get("text_color"),
			Border:     row.get("border_color"),
		})
	})
	if err != nil {
		return nil, err
	}
	return colors, nil
}
