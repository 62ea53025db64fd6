package scape

import "math"

// DriftScape is the counter task with a target that flips sign every
// interval fitness evaluations, forcing the agent to unlearn a converged
// preference and chase the target in the opposite direction.
type DriftScape struct {
	target   int
	interval int
	total    int
	evals    int
}

func NewDriftScape(target, interval int) *DriftScape {
	if interval < 1 {
		interval = 1
	}
	return &DriftScape{target: target, interval: interval}
}

func (s *DriftScape) Name() string {
	return "drift"
}

func (s *DriftScape) Actions() []Action {
	return []Action{
		func() { s.total++ },
		func() { s.total-- },
	}
}

func (s *DriftScape) Fitness() float64 {
	s.evals++
	if s.evals%s.interval == 0 {
		s.target = -s.target
	}
	return -math.Abs(float64(s.target - s.total))
}

func (s *DriftScape) Reset() {
	s.total = 0
	s.evals = 0
	if s.target < 0 {
		s.target = -s.target
	}
}

func (s *DriftScape) Target() int {
	return s.target
}
