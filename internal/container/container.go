// Package container defines the read-only view of a hierarchical data
// container (an HDF5 file) that the aggregation pipeline consumes.
//
// A Container holds named device groups; each Group holds named numeric
// series. Implementations copy series data into Go memory so nothing read
// from a container outlives the handle.
package container

// Container is an opened data file
type Container interface {
	// Devices returns the device group names in container order
	Devices() ([]string, error)
	// Device opens the named device group
	Device(name string) (Group, error)
	Close() error
}

// Group is one device inside a container
type Group interface {
	Name() string
	// Has reports whether the group holds the named series
	Has(series string) bool
	// Read loads the named series as float64 values
	Read(series string) (*Array, error)
}

// Array is a dense n-dimensional array in row-major order
type Array struct {
	Shape  []int
	Values []float64
}

// Opener opens the container stored at path.
// Failures are ErrTypeOpen errors.
type Opener func(path string) (Container, error)

// Rank returns the number of dimensions
func (a *Array) Rank() int {
	return len(a.Shape)
}

// Len returns the number of elements the shape describes
func (a *Array) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// At3 returns the element at [i][j][k] of a rank 3 array
func (a *Array) At3(i, j, k int) float64 {
	return a.Values[(i*a.Shape[1]+j)*a.Shape[2]+k]
}
