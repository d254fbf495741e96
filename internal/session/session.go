// Package session ties the country registry to the persisted visited list.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"geoglobe/internal/country"
	"geoglobe/internal/geom"
	"geoglobe/internal/labels"
	"geoglobe/internal/storage"
)

// ErrUnknownCountry is returned when toggling a name that is not in the dataset.
var ErrUnknownCountry = errors.New("unknown country")

// Session owns the registry and the visited set of one run.
// It is not safe for concurrent use; the TUI update loop is its only caller.
type Session struct {
	registry *country.Registry
	visited  *VisitedSet
	backend  storage.Backend
	key      string
	log      *zap.Logger
}

// Open loads the visited list stored under key and builds the registry for cs.
// An absent key starts an empty list. Stored names that are not in cs are kept.
func Open(ctx context.Context, cs []geom.Country, backend storage.Backend, key string, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if key == "" {
		key = storage.DefaultKey
	}

	values, ok, err := backend.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading visited countries: %w", err)
	}
	if !ok {
		log.Debug("no stored visited list", zap.String("key", key))
	}

	visited := NewVisitedSet(values...)
	s := &Session{
		registry: country.NewRegistry(cs, visited),
		visited:  visited,
		backend:  backend,
		key:      key,
		log:      log,
	}
	for _, name := range visited.Ordered() {
		if _, ok := s.registry.Get(name); !ok {
			log.Debug("stored country not in dataset", zap.String("country", name))
		}
	}
	log.Info("session opened",
		zap.Int("countries", s.registry.Len()),
		zap.Int("visited", visited.Len()))
	return s, nil
}

// Has reports whether name is visited. Session satisfies labels.Visited.
func (s *Session) Has(name string) bool { return s.visited.Has(name) }

// Toggle flips the visited state of name and saves the list. It returns the
// new state. When saving fails the toggle is kept and the error returned.
func (s *Session) Toggle(ctx context.Context, name string) (bool, error) {
	if _, ok := s.registry.Get(name); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownCountry, name)
	}

	now := !s.visited.Has(name)
	if now {
		s.visited.Add(name)
		s.registry.MarkVisited(name)
	} else {
		s.visited.Remove(name)
		s.registry.MarkUnvisited(name)
	}
	s.log.Info("country toggled", zap.String("country", name), zap.Bool("visited", now))

	if err := s.backend.Save(ctx, s.key, s.visited.Ordered()); err != nil {
		s.log.Error("saving visited list", zap.Error(err))
		return now, fmt.Errorf("saving visited countries: %w", err)
	}
	return now, nil
}

// Reset clears the visited list, restores the major flags and deletes the stored key.
func (s *Session) Reset(ctx context.Context) error {
	s.visited.Clear()
	s.registry.ResetMajor()
	s.log.Info("visited list reset")
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.log.Error("deleting visited list", zap.Error(err))
		return fmt.Errorf("resetting visited countries: %w", err)
	}
	return nil
}

// Visited returns the visited names sorted for display.
func (s *Session) Visited() []string { return s.visited.Sorted() }

// Ordered returns the visited names in the order they were marked.
func (s *Session) Ordered() []string { return s.visited.Ordered() }

func (s *Session) Count() int { return s.visited.Len() }

// Labels snapshots the selector input.
func (s *Session) Labels() []labels.Label { return s.registry.Labels() }

func (s *Session) Registry() *country.Registry { return s.registry }

// ClipboardText is the visited list as one name per line.
func (s *Session) ClipboardText() string {
	return strings.Join(s.Visited(), "\n")
}

// Export writes the visited countries with a known location to path as GeoJSON
// points. It returns the number written.
func (s *Session) Export(path string) (int, error) {
	var pms []geom.Placemark
	for _, name := range s.visited.Ordered() {
		e, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		lon, lat, ok := e.LonLat()
		if !ok {
			continue
		}
		props := map[string]any{}
		if code := country.ISOCode(name); code != "" {
			props["iso_a2"] = code
		}
		if region := country.Region(name); region != "" {
			props["region"] = region
		}
		pms = append(pms, geom.Placemark{Name: name, Lon: lon, Lat: lat, Properties: props})
	}
	if err := geom.WritePointsFile(path, pms); err != nil {
		return 0, fmt.Errorf("export %s: %w", path, err)
	}
	s.log.Info("visited list exported", zap.String("path", path), zap.Int("count", len(pms)))
	return len(pms), nil
}

// Close releases the storage backend.
func (s *Session) Close() error { return s.backend.Close() }

// ToggledMessage is the status line after a toggle.
func ToggledMessage(name string, visited bool) string {
	if visited {
		return name + " visited!"
	}
	return name + " marked as not visited"
}

const ResetMessage = "All countries have been reset to not visited"

// CountMessage is the idle status line.
func CountMessage(n int) string {
	return fmt.Sprintf("You've visited %d countries. Click on a country to mark it as visited.", n)
}
