package core

import (
	"testing"
	"time"
)

func TestMetricsAverageWindow(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.010)
	}
	if ft := m.FrameTime(); ft < 9.999 || ft > 10.001 {
		t.Fatalf("FrameTime() = %f, want 10ms", ft)
	}
	// the window only keeps the latest AVG_COUNT samples
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.020)
	}
	if ft := m.FrameTime(); ft < 19.999 || ft > 20.001 {
		t.Fatalf("FrameTime() = %f, want 20ms", ft)
	}
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 61; i++ {
		m.Update(1.0 / 60.0)
	}
	fps, _ := m.Frame()
	if fps != 61 && fps != 60 {
		t.Errorf("FPS() = %f, want about 60", fps)
	}
}

func TestClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Update()
	if c.Elapsed() != 0 {
		t.Fatalf("a stopped clock should not advance, got %f", c.Elapsed())
	}
	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	if c.Elapsed() != 1.5 {
		t.Errorf("Elapsed() = %f, want 1.5", c.Elapsed())
	}
	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	if c.Elapsed() != 1.5 {
		t.Errorf("Elapsed() after Stop = %f, want 1.5", c.Elapsed())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
