package core

import "github.com/spaghettifunk/anima-choreographer/engine/containers"

const AVG_COUNT = 30

// Metrics keeps a rolling window of frame times and a frames-per-second counter.
type Metrics struct {
	samples            *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		samples: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records a frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	m.samples.Push(frameMS)

	sum := 0.0
	m.samples.Each(func(v float64) { sum += v })
	m.msAvg = sum / float64(m.samples.Len())

	// Calculate Frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime returns the average frame time in milliseconds over the window.
func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
