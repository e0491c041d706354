package testutil

// WithMechanics adds length, mass and time plus velocity, acceleration and
// force. acceleration references velocity and force references
// acceleration, so resolution has to recurse.
func (b *Builder) WithMechanics() *Builder {
	return b.
		WithBase("length", Symbol("L")).
		WithBase("mass", Symbol("M")).
		WithBase("time", Symbol("T")).
		WithDerived("velocity", Symbol("v"), Components("length", "time^-1")).
		WithDerived("acceleration", Symbol("a"), Components("velocity", "time^-1")).
		WithDerived("force", Symbol("F"), Components("mass", "acceleration"))
}

// WithHalfPower adds a derived "odd" entry with a fractional exponent.
// Requires length, mass and time.
func (b *Builder) WithHalfPower() *Builder {
	return b.WithDerived("odd", Symbol("ω"), Components("length", "time^-1", "mass^1/2"))
}
