package calculator

// Boundary 第一类边界条件，两端温度固定
type Boundary struct {
	Low  float64 // node 0
	High float64 // node n-1
}

// Apply overwrites the first and the last node. It must run after the interior
// update of a step has finished.
func (b Boundary) Apply(field []float64) {
	if len(field) == 0 {
		return
	}
	field[0] = b.Low
	field[len(field)-1] = b.High
}
