package scape

import "math"

// CounterScape tracks an integer total against a fixed target. The inc and
// dec actions move the total by one; fitness is the negated distance between
// total and target, so the maximum reachable fitness is 0.
type CounterScape struct {
	target int
	total  int
}

func NewCounterScape(target int) *CounterScape {
	return &CounterScape{target: target}
}

func (s *CounterScape) Name() string {
	return "counter"
}

func (s *CounterScape) Actions() []Action {
	return []Action{
		func() { s.total++ },
		func() { s.total-- },
	}
}

func (s *CounterScape) Fitness() float64 {
	return -math.Abs(float64(s.target - s.total))
}

func (s *CounterScape) Reset() {
	s.total = 0
}

func (s *CounterScape) Total() int {
	return s.total
}
