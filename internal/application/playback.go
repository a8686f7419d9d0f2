package application

import (
	"sync"
	"time"
)

// PlaybackTimer is a wall-clock playback position with pause and seek. It
// stands in for an audio player's current time.
type PlaybackTimer struct {
	mu       sync.Mutex
	now      func() time.Time
	offset   time.Duration // position at the last resume or seek
	resumed  time.Time
	paused   bool
	duration time.Duration
}

// NewPlaybackTimer returns a paused timer at position zero. A zero duration
// means unbounded.
func NewPlaybackTimer(duration time.Duration) *PlaybackTimer {
	return &PlaybackTimer{now: time.Now, paused: true, duration: duration}
}

func (p *PlaybackTimer) position() time.Duration {
	pos := p.offset
	if !p.paused {
		pos += p.now().Sub(p.resumed)
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return max(pos, 0)
}

func (p *PlaybackTimer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

func (p *PlaybackTimer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Finished reports whether a bounded timer reached its end
func (p *PlaybackTimer) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration > 0 && p.position() >= p.duration
}

func (p *PlaybackTimer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return
	}
	p.resumed = p.now()
	p.paused = false
}

func (p *PlaybackTimer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return
	}
	p.offset = p.position()
	p.paused = true
}

// Toggle flips between playing and paused
func (p *PlaybackTimer) Toggle() {
	if p.Paused() {
		p.Play()
	} else {
		p.Pause()
	}
}

// Seek moves the position by delta, clamped to the track
func (p *PlaybackTimer) Seek(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.position() + delta
	if p.duration > 0 {
		pos = min(pos, p.duration)
	}
	p.offset = max(pos, 0)
	p.resumed = p.now()
}
