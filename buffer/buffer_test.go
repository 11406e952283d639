package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddItem(t *testing.T) {
	buf := NewBuffer(10)

	// first item fills the ring
	buf.AddItem(1)

	a, mn, mx, s := buf.GetAverageMinMaxSum()
	assert.Equal(t, Average(1), a)
	assert.Equal(t, Minimum(1), mn)
	assert.Equal(t, Maximum(1), mx)
	assert.Equal(t, Sum(10), s)

	buf.AddItem(10)

	a, mn, mx, s = buf.GetAverageMinMaxSum()
	assert.Equal(t, Average(1.9), a)
	assert.Equal(t, Minimum(1), mn)
	assert.Equal(t, Maximum(10), mx)
	assert.Equal(t, Sum(19), s)

	buf.AddItem(5)

	a, _, _, s = buf.GetAverageMinMaxSum()
	assert.Equal(t, Average(2.3), a)
	assert.Equal(t, Sum(23), s)
}

func TestAverageLast(t *testing.T) {
	buf := NewBuffer(10)

	for i := 0; i < 5; i++ {
		buf.AddItem(4)
	}
	for i := 0; i < 5; i++ {
		buf.AddItem(2)
	}

	assert.Equal(t, Average(2), buf.AverageLast(2))
	assert.Equal(t, Average(2.3333333333333335), buf.AverageLast(6))

	for i := 0; i < 4; i++ {
		buf.AddItem(2)
	}

	assert.Equal(t, Average(2), buf.AverageLast(9))
	assert.Equal(t, Average(2.2), buf.AverageLast(10))
}
