// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides in-memory container fixtures and a
// buffered slog handler for asserting on log records:
//
//	store := testutil.NewMemoryStore().Add("1.hdf5", &testutil.MemoryContainer{
//	    Devices: []testutil.MemoryDevice{
//	        testutil.PositionDevice("D", testutil.SensorTracks(track)),
//	    },
//	})
//	logger, handler := testutil.NewTestLogger(t)
//
// Nothing here may import business packages beyond the domain contracts.
package shared
