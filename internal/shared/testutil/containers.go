package testutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// MemoryDevice is a device fixture: named series of row-major arrays
type MemoryDevice struct {
	Name   string
	Series map[string]*container.Array
}

// MemoryContainer is a container fixture; devices keep their slice order
type MemoryContainer struct {
	Devices []MemoryDevice
	// OpenErr makes opening the container fail
	OpenErr error
	// ReadErr makes every series read fail
	ReadErr error
}

// MemoryStore serves container fixtures keyed by file base name
type MemoryStore struct {
	mu         sync.Mutex
	containers map[string]*MemoryContainer
	opens      map[string]int
	open       int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		containers: make(map[string]*MemoryContainer),
		opens:      make(map[string]int),
	}
}

// Add registers a fixture under a file name
func (s *MemoryStore) Add(name string, c *MemoryContainer) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containers[name] = c
	return s
}

// Names returns the registered file names sorted
func (s *MemoryStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.containers))
	for name := range s.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Opens returns how many times the named file was opened
func (s *MemoryStore) Opens(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens[name]
}

// OpenHandles returns the number of containers opened and not yet closed
func (s *MemoryStore) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Open satisfies container.Opener; only the base name of path is used
func (s *MemoryStore) Open(path string) (container.Container, error) {
	name := filepath.Base(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.opens[name]++
	c, ok := s.containers[name]
	if !ok {
		return nil, apperrors.NewOpenError(path, fmt.Errorf("no fixture named %q", name))
	}
	if c.OpenErr != nil {
		return nil, apperrors.NewOpenError(path, c.OpenErr)
	}
	s.open++
	return &memoryHandle{store: s, path: path, c: c}, nil
}

type memoryHandle struct {
	store  *MemoryStore
	path   string
	c      *MemoryContainer
	closed bool
}

func (h *memoryHandle) Devices() ([]string, error) {
	names := make([]string, len(h.c.Devices))
	for i, d := range h.c.Devices {
		names[i] = d.Name
	}
	return names, nil
}

func (h *memoryHandle) Device(name string) (container.Group, error) {
	for i := range h.c.Devices {
		if h.c.Devices[i].Name == name {
			return &memoryGroup{h: h, d: &h.c.Devices[i]}, nil
		}
	}
	return nil, apperrors.NewOpenError(h.path, fmt.Errorf("no device %q", name))
}

func (h *memoryHandle) Close() error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.closed {
		return fmt.Errorf("container %s closed twice", h.path)
	}
	h.closed = true
	h.store.open--
	return nil
}

type memoryGroup struct {
	h *memoryHandle
	d *MemoryDevice
}

func (g *memoryGroup) Name() string { return g.d.Name }

func (g *memoryGroup) Has(series string) bool {
	_, ok := g.d.Series[series]
	return ok
}

func (g *memoryGroup) Read(series string) (*container.Array, error) {
	if g.h.c.ReadErr != nil {
		return nil, apperrors.NewOpenError(g.h.path, g.h.c.ReadErr)
	}
	arr, ok := g.d.Series[series]
	if !ok {
		return nil, apperrors.NewOpenError(g.h.path, fmt.Errorf("no series %q in %q", series, g.d.Name))
	}
	out := &container.Array{
		Shape:  append([]int(nil), arr.Shape...),
		Values: append([]float64(nil), arr.Values...),
	}
	return out, nil
}

// PositionArray builds a [T, S, 3] array from samples[t][s]
func PositionArray(samples [][]domain.Vec3) *container.Array {
	t := len(samples)
	s := 0
	if t > 0 {
		s = len(samples[0])
	}
	arr := &container.Array{Shape: []int{t, s, 3}}
	for _, row := range samples {
		for _, v := range row {
			arr.Values = append(arr.Values, v[0], v[1], v[2])
		}
	}
	return arr
}

// SensorTracks builds a [T, S, 3] array from per-sensor tracks, tracks[s][t].
// All tracks must have the same length.
func SensorTracks(tracks ...[]domain.Vec3) *container.Array {
	if len(tracks) == 0 {
		return &container.Array{Shape: []int{0, 0, 3}}
	}
	samples := make([][]domain.Vec3, len(tracks[0]))
	for t := range samples {
		samples[t] = make([]domain.Vec3, len(tracks))
		for s, track := range tracks {
			samples[t][s] = track[t]
		}
	}
	arr := PositionArray(samples)
	arr.Shape[1] = len(tracks)
	return arr
}

// PositionDevice is a device holding only a "Position" series
func PositionDevice(name string, arr *container.Array) MemoryDevice {
	return MemoryDevice{
		Name:   name,
		Series: map[string]*container.Array{"Position": arr},
	}
}
