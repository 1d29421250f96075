package npc

// CallingStation checks or calls every street and never raises. Useful as a
// baseline opponent and for exercising the call path in simulations.
type CallingStation struct{}

func (c *CallingStation) Name() string { return "station" }

func (c *CallingStation) Decide(v View) Decision {
	return passive(v)
}

var _ Decider = (*CallingStation)(nil)
