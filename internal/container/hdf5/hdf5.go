// Package hdf5 opens HDF5 files as containers using gonum.org/v1/hdf5.
//
// libhdf5 is not thread safe in its default build, so every call into the
// library is serialized behind a package mutex.
package hdf5

import (
	"fmt"
	"sync"

	"gonum.org/v1/hdf5"

	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

var libMu sync.Mutex

// Open opens the file at path read-only. It satisfies container.Opener.
func Open(path string) (container.Container, error) {
	libMu.Lock()
	defer libMu.Unlock()

	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, apperrors.NewOpenError(path, err)
	}
	return &file{path: path, f: f}, nil
}

type file struct {
	path string
	f    *hdf5.File
}

// Devices returns the root level groups in index (name) order.
// Root level datasets are not devices and are left out.
func (c *file) Devices() ([]string, error) {
	libMu.Lock()
	defer libMu.Unlock()

	n, err := c.f.NumObjects()
	if err != nil {
		return nil, apperrors.NewOpenError(c.path, err)
	}

	devices := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		typ, err := c.f.ObjectTypeByIndex(i)
		if err != nil {
			return nil, apperrors.NewOpenError(c.path, err)
		}
		if typ != hdf5.H5G_GROUP {
			continue
		}
		name, err := c.f.ObjectNameByIndex(i)
		if err != nil {
			return nil, apperrors.NewOpenError(c.path, err)
		}
		devices = append(devices, name)
	}
	return devices, nil
}

func (c *file) Device(name string) (container.Group, error) {
	libMu.Lock()
	defer libMu.Unlock()

	g, err := c.f.OpenGroup(name)
	if err != nil {
		return nil, apperrors.NewOpenError(c.path, err).WithContext("device", name)
	}
	defer g.Close()

	// Series are loaded on demand through the file handle, so the group
	// handle is not kept open.
	return &group{file: c, name: name}, nil
}

func (c *file) Close() error {
	libMu.Lock()
	defer libMu.Unlock()
	return c.f.Close()
}

type group struct {
	file *file
	name string
}

func (g *group) Name() string { return g.name }

func (g *group) Has(series string) bool {
	libMu.Lock()
	defer libMu.Unlock()

	grp, err := g.file.f.OpenGroup(g.name)
	if err != nil {
		return false
	}
	defer grp.Close()

	return grp.LinkExists(series)
}

// Read loads a numeric dataset and widens it to float64.
//
// The dataset's own storage type is used as the memory type on read, so the
// buffer must be a Go slice of exactly that type. Storage that matches no
// native type (big endian on a little endian host, for example) is an error.
func (g *group) Read(series string) (*container.Array, error) {
	libMu.Lock()
	defer libMu.Unlock()

	wrap := func(err error) error {
		return apperrors.NewOpenError(g.file.path, err).
			WithContext("device", g.name).
			WithContext("series", series)
	}

	grp, err := g.file.f.OpenGroup(g.name)
	if err != nil {
		return nil, wrap(err)
	}
	defer grp.Close()

	ds, err := grp.OpenDataset(series)
	if err != nil {
		return nil, wrap(err)
	}
	defer ds.Close()

	dtype, err := ds.Datatype()
	if err != nil {
		return nil, wrap(err)
	}
	defer dtype.Close()

	class := dtype.Class()
	if class != hdf5.T_FLOAT && class != hdf5.T_INTEGER {
		return nil, wrap(fmt.Errorf("series is not numeric (type class %v)", class))
	}
	read := readerFor(dtype)
	if read == nil {
		return nil, wrap(fmt.Errorf("unsupported numeric storage (type class %v, %d bytes)", class, dtype.Size()))
	}

	space := ds.Space()
	dims, _, err := space.SimpleExtentDims()
	space.Close()
	if err != nil {
		return nil, wrap(err)
	}

	arr := &container.Array{Shape: make([]int, len(dims))}
	for i, d := range dims {
		arr.Shape[i] = int(d)
	}

	n := arr.Len()
	if n == 0 {
		arr.Values = []float64{}
		return arr, nil
	}
	if arr.Values, err = read(ds, n); err != nil {
		return nil, wrap(err)
	}
	return arr, nil
}

type readFunc func(ds *hdf5.Dataset, n int) ([]float64, error)

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// readAs reads n values stored as T and widens them.
func readAs[T number](ds *hdf5.Dataset, n int) ([]float64, error) {
	buf := make([]T, n)
	if err := ds.Read(&buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}

// readerFor picks the reader whose Go type has the dataset's storage layout.
func readerFor(dtype *hdf5.Datatype) readFunc {
	natives := []struct {
		dtype *hdf5.Datatype
		read  readFunc
	}{
		{hdf5.T_NATIVE_DOUBLE, readAs[float64]},
		{hdf5.T_NATIVE_FLOAT, readAs[float32]},
		{hdf5.T_NATIVE_INT8, readAs[int8]},
		{hdf5.T_NATIVE_INT16, readAs[int16]},
		{hdf5.T_NATIVE_INT32, readAs[int32]},
		{hdf5.T_NATIVE_INT64, readAs[int64]},
		{hdf5.T_NATIVE_UINT8, readAs[uint8]},
		{hdf5.T_NATIVE_UINT16, readAs[uint16]},
		{hdf5.T_NATIVE_UINT32, readAs[uint32]},
		{hdf5.T_NATIVE_UINT64, readAs[uint64]},
	}
	for _, nt := range natives {
		if dtype.Equal(nt.dtype) {
			return nt.read
		}
	}
	return nil
}
