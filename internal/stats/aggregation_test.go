package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
	assert.InDelta(t, 1.0/3.0, Mean(Floats([]int{0, 0, 1})), 1e-12)
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 6.0, Sum(Floats([]int{1, 2, 3})))
}
