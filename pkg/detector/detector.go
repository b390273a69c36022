// Package detector produces emotion and intoxication readings. The only
// implementation today is a random simulator; a real model can be dropped in
// behind Detector without touching the callers.
package detector

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"DrunkDetect/internal/entity"
)

const (
	MinConfidence = 0.75
	MaxConfidence = 0.98

	// The live and photo views have always used different cut-offs for the
	// "Intoxicated" draw (p=0.15 vs p=0.4). They are kept apart on purpose
	// until someone decides which one is right.
	LiveIntoxicationThreshold  = 0.85
	PhotoIntoxicationThreshold = 0.6
)

type Detector interface {
	Detect(ctx context.Context) (entity.DetectionResult, error)
}

// Source is the subset of *rand.Rand the simulator needs.
type Source interface {
	Float64() float64
}

type Simulator struct {
	mu        sync.Mutex
	rng       Source
	threshold float64
}

type Option func(*Simulator)

func WithSource(src Source) Option {
	return func(s *Simulator) {
		s.rng = src
	}
}

// WithIntoxicationThreshold sets the value a uniform draw must exceed to report Intoxicated.
func WithIntoxicationThreshold(threshold float64) Option {
	return func(s *Simulator) {
		s.threshold = threshold
	}
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		threshold: LiveIntoxicationThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	return s
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (s *Simulator) Threshold() float64 {
	return s.threshold
}

func (s *Simulator) Detect(ctx context.Context) (entity.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.AnalyzingResult(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := int(s.rng.Float64() * float64(len(entity.Emotions)))
	if idx >= len(entity.Emotions) {
		idx = len(entity.Emotions) - 1
	}

	intoxication := entity.IntoxicationSober
	if s.rng.Float64() > s.threshold {
		intoxication = entity.IntoxicationIntoxicated
	}

	confidence := s.rng.Float64()*(MaxConfidence-MinConfidence) + MinConfidence

	return entity.DetectionResult{
		Emotion:      entity.Emotions[idx],
		Confidence:   confidence,
		Intoxication: intoxication,
	}, nil
}
