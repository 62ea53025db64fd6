package scape

import "fmt"

// Action is a zero-argument capability owned by the environment. The agent
// never observes its effect directly, only the fitness that follows it.
type Action func()

// FitnessFunc reports the environment's quality at call time. Higher is
// better; no range is assumed.
type FitnessFunc func() float64

// Scape is a self-contained environment: an ordered action set whose order
// fixes action identity, and a fitness signal over the environment's state.
type Scape interface {
	Name() string
	Actions() []Action
	Fitness() float64
	Reset()
}

func New(name string) (Scape, error) {
	switch name {
	case "constant":
		return NewConstantScape(5), nil
	case "counter":
		return NewCounterScape(10), nil
	case "drift":
		return NewDriftScape(10, 500), nil
	default:
		return nil, fmt.Errorf("unsupported scape: %s", name)
	}
}

func Names() []string {
	return []string{"constant", "counter", "drift"}
}
