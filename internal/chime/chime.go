// Package chime plays a short bell when the countdown expires.
package chime

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tinytelemetry/hourglass/internal/timer"
)

const sampleRate = beep.SampleRate(44100)

// Player starts a streamer asynchronously.
type Player interface {
	Play(s beep.Streamer)
}

type speakerPlayer struct{}

func (speakerPlayer) Play(s beep.Streamer) { speaker.Play(s) }

// Chime plays the expiry bell. A nil Chime is silent.
type Chime struct {
	mu      sync.Mutex
	player  Player
	repeats int
}

// New initializes the audio device. When that fails the chime is disabled:
// the error is logged and nil is returned.
func New(repeats int) *Chime {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("chime: audio unavailable, chime disabled: %v", err)
		return nil
	}
	return NewWithPlayer(speakerPlayer{}, repeats)
}

// NewWithPlayer builds a chime on an explicit player.
func NewWithPlayer(p Player, repeats int) *Chime {
	if repeats <= 0 {
		repeats = 3
	}
	return &Chime{player: p, repeats: repeats}
}

// Ring plays the bell sequence.
func (c *Chime) Ring() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player.Play(Bell(sampleRate, c.repeats))
}

// Observe is a timer observer that rings on expiry.
func (c *Chime) Observe(ev timer.Event) {
	if ev.Kind == timer.EventExpired {
		c.Ring()
	}
}

// Bell returns repeats strikes of a decaying two-partial tone, each followed
// by a short gap.
func Bell(sr beep.SampleRate, repeats int) beep.Streamer {
	parts := make([]beep.Streamer, 0, repeats*2)
	for i := 0; i < repeats; i++ {
		parts = append(parts,
			beep.Take(sr.N(600*time.Millisecond), &strike{sr: sr, freq: 880}),
			beep.Silence(sr.N(150*time.Millisecond)),
		)
	}
	return beep.Seq(parts...)
}

// strike is one bell hit: fundamental plus an inharmonic overtone under an
// exponential decay.
type strike struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func (g *strike) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-6*t) * math.Min(t/0.005, 1)
		v := 0.6*math.Sin(2*math.Pi*g.freq*t) + 0.25*math.Sin(2*math.Pi*g.freq*2.76*t)
		v *= env * 0.4
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *strike) Err() error { return nil }
