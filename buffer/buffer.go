package buffer

import (
	"math"
	"sync"
)

type Average float64
type Minimum float64
type Maximum float64
type Sum float64

// SampleBuffer is a fixed-size ring of float64 samples. The first sample
// written fills the whole ring so averages are sane before a full pass.
type SampleBuffer struct {
	position int
	size     int
	data     []float64
	lock     sync.Mutex
	first    bool
}

func NewBuffer(size int) *SampleBuffer {
	return &SampleBuffer{
		size:  size,
		data:  make([]float64, size),
		first: true,
	}
}

func (b *SampleBuffer) AddItem(val float64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.first {
		for i := range b.data {
			b.data[i] = val
		}
		b.first = false
	}
	b.data[b.position] = val
	b.position++
	if b.position == b.size {
		b.position = 0
	}
}

func (b *SampleBuffer) GetAverageMinMaxSum() (Average, Minimum, Maximum, Sum) {
	b.lock.Lock()
	defer b.lock.Unlock()

	min := math.MaxFloat64
	max := 0.0
	sum := 0.0
	for _, x := range b.data {
		if x > max {
			max = x
		}
		if x < min {
			min = x
		}
		sum += x
	}
	return Average(sum / float64(b.size)), Minimum(min), Maximum(max), Sum(sum)
}

// AverageLast averages the most recent n samples.
func (b *SampleBuffer) AverageLast(n int) Average {
	b.lock.Lock()
	defer b.lock.Unlock()

	index := b.position - n
	if index < 0 {
		index += b.size
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += b.data[index]
		index++
		if index == b.size {
			index = 0
		}
	}
	return Average(sum / float64(n))
}

func (b *SampleBuffer) GetSize() int {
	return b.size
}
