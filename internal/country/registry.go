// Package country keeps the label entities of a loaded country dataset.
package country

import (
	"sort"

	"github.com/biter777/countries"
	"github.com/go-gl/mathgl/mgl64"

	"geoglobe/internal/geom"
	"geoglobe/internal/globe"
	"geoglobe/internal/labels"
)

// Curated names are always major, whatever their size.
var Curated = []string{
	"United States of America", "Russia", "Canada", "China", "Brazil", "Australia",
	"India", "Argentina", "Kazakhstan", "Algeria", "Mexico", "Indonesia",
	"Saudi Arabia", "Iran", "Japan", "Egypt", "France", "Thailand", "Spain",
	"Turkey", "Germany", "Italy", "United Kingdom", "South Africa", "Colombia",
	"Ukraine", "Pakistan",
}

// largeShare is the fraction of the summed country sizes above which a country is major.
const largeShare = 1.0 / 200

var curatedSet = func() map[string]bool {
	m := make(map[string]bool, len(Curated))
	for _, n := range Curated {
		m[n] = true
	}
	return m
}()

// IsCurated reports whether name is on the curated major list.
func IsCurated(name string) bool { return curatedSet[name] }

// Entry is one country with its label state.
type Entry struct {
	geom.Country
	Anchor    mgl64.Vec3 // on the label sphere, zero when the country has no vertices
	HasAnchor bool
	Size      float64
	// Major marks labels shown by default. It changes when the visited state toggles.
	Major bool
}

// Registry holds the entries in load order.
type Registry struct {
	entries []*Entry
	index   map[string]int
	total   float64
}

// NewRegistry builds entries for cs. visited, when non-nil, is consulted once to
// promote countries already visited at load time.
func NewRegistry(cs []geom.Country, visited labels.Visited) *Registry {
	r := &Registry{index: make(map[string]int, len(cs))}
	for _, c := range cs {
		e := &Entry{Country: c, Size: c.Size()}
		e.Anchor, e.HasAnchor = c.Anchor(globe.LabelRadius)
		if i, ok := r.index[c.Name]; ok {
			r.entries[i] = e
			continue
		}
		r.index[c.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	for _, e := range r.entries {
		r.total += e.Size
	}
	for _, e := range r.entries {
		e.Major = IsCurated(e.Name) || r.large(e) || (visited != nil && visited.Has(e.Name))
	}
	return r
}

func (r *Registry) large(e *Entry) bool {
	return r.total > 0 && e.Size > r.total*largeShare
}

func (r *Registry) Len() int { return len(r.entries) }

// Get returns the entry for name.
func (r *Registry) Get(name string) (*Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i], true
}

// Entries returns all entries in load order.
func (r *Registry) Entries() []*Entry { return r.entries }

// Names returns the country names sorted alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

// At returns the first country, in load order, whose shape contains the point.
func (r *Registry) At(lat, lon float64) (*Entry, bool) {
	for _, e := range r.entries {
		if e.Contains(lon, lat) {
			return e, true
		}
	}
	return nil, false
}

// MarkVisited promotes name to major.
func (r *Registry) MarkVisited(name string) {
	if e, ok := r.Get(name); ok {
		e.Major = true
	}
}

// MarkUnvisited restores the curated flag of name.
func (r *Registry) MarkUnvisited(name string) {
	if e, ok := r.Get(name); ok {
		e.Major = IsCurated(name)
	}
}

// ResetMajor restores the curated flag of every entry.
func (r *Registry) ResetMajor() {
	for _, e := range r.entries {
		e.Major = IsCurated(e.Name)
	}
}

// Labels returns the selector input for every country with an anchor.
func (r *Registry) Labels() []labels.Label {
	out := make([]labels.Label, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.HasAnchor {
			continue
		}
		out = append(out, labels.Label{Name: e.Name, Anchor: e.Anchor, Major: e.Major})
	}
	return out
}

// ISOCode returns the ISO 3166-1 alpha-2 code for a country name, or "" when unknown.
func ISOCode(name string) string {
	c := countries.ByName(name)
	if c == countries.Unknown || !c.IsValid() {
		return ""
	}
	return c.Alpha2()
}

// Region returns the continent of a country name, or "" when unknown.
func Region(name string) string {
	c := countries.ByName(name)
	if c == countries.Unknown || !c.IsValid() {
		return ""
	}
	return c.Region().String()
}
