package mockgrid

// Option configures a Generator.
type Option func(*Generator)

// WithRounds sets the number of rounds in the generated season.
func WithRounds(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.rounds = n
		}
	}
}

// WithDriverCount sets the size of the driver grid.
func WithDriverCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.driverCount = n
		}
	}
}
