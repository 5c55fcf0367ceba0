package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArray(t *testing.T) {
	// shape [T=2, S=2, 3]
	a := &Array{
		Shape: []int{2, 2, 3},
		Values: []float64{
			1, 2, 3, 4, 5, 6,
			7, 8, 9, 10, 11, 12,
		},
	}

	assert.Equal(t, 3, a.Rank())
	assert.Equal(t, 12, a.Len())
	assert.Equal(t, 1.0, a.At3(0, 0, 0))
	assert.Equal(t, 6.0, a.At3(0, 1, 2))
	assert.Equal(t, 7.0, a.At3(1, 0, 0))
	assert.Equal(t, 11.0, a.At3(1, 1, 1))

	assert.Equal(t, 0, (&Array{}).Len())
	assert.Equal(t, 0, (&Array{Shape: []int{0, 4, 3}}).Len())
}
