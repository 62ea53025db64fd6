package scape

// ConstantScape has a single noop action and a fixed fitness value. It is
// the smallest environment that satisfies the contract.
type ConstantScape struct {
	value float64
}

func NewConstantScape(value float64) *ConstantScape {
	return &ConstantScape{value: value}
}

func (s *ConstantScape) Name() string {
	return "constant"
}

func (s *ConstantScape) Actions() []Action {
	return []Action{func() {}}
}

func (s *ConstantScape) Fitness() float64 {
	return s.value
}

func (s *ConstantScape) Reset() {}
