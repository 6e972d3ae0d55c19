package feed

import (
	"regexp"
	"sort"
)

// Joiner resolves line identifiers to the agencies of one network. The
// network is found through route identifiers matching a pattern; every
// route of an agency that runs at least one such route belongs to it.
type Joiner struct {
	agencies []Agency
	routes   []Route
	byID     map[string]Agency
	byShort  map[string]Route
}

func NewJoiner(agencies []Agency, routes []Route, routeID *regexp.Regexp) *Joiner {
	all := make(map[string]Agency, len(agencies))
	for _, a := range agencies {
		if _, ok := all[a.ID]; !ok {
			all[a.ID] = a
		}
	}

	j := &Joiner{
		byID:    make(map[string]Agency),
		byShort: make(map[string]Route),
	}
	for _, r := range routes {
		if !routeID.MatchString(r.ID) {
			continue
		}
		a, ok := all[r.AgencyID]
		if !ok {
			continue
		}
		if _, dup := j.byID[a.ID]; dup {
			continue
		}
		j.byID[a.ID] = a
		j.agencies = append(j.agencies, a)
	}

	for _, r := range routes {
		if _, ok := j.byID[r.AgencyID]; ok {
			j.routes = append(j.routes, r)
		}
	}
	sort.SliceStable(j.routes, func(a, b int) bool {
		return j.routes[a].ShortName < j.routes[b].ShortName
	})
	for _, r := range j.routes {
		if _, ok := j.byShort[r.ShortName]; !ok {
			j.byShort[r.ShortName] = r
		}
	}
	return j
}

// Agencies returns the network's agencies in order of first matching route.
func (j *Joiner) Agencies() []Agency {
	return j.agencies
}

// Routes returns all routes of the network's agencies sorted by short name.
func (j *Joiner) Routes() []Route {
	return j.routes
}

// AgencyFor returns the agency of the first route whose short name is line.
func (j *Joiner) AgencyFor(line string) (Agency, bool) {
	r, ok := j.byShort[line]
	if !ok {
		return Agency{}, false
	}
	a, ok := j.byID[r.AgencyID]
	return a, ok
}

// HasRoute reports whether the network runs a route with this short name.
func (j *Joiner) HasRoute(shortName string) bool {
	_, ok := j.byShort[shortName]
	return ok
}
