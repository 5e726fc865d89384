package modkit

// Built is the result of applying options; later options win
type Built struct {
	Name   string
	Prefix string
	Ports  any
}

// Build applies opts in order
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{Name: c.name, Prefix: c.prefix, Ports: c.ports}
}
