package modkit

// Option adjusts how a module is built
type Option func(*buildCfg)

type buildCfg struct {
	name   string
	prefix string
	ports  any
}

// WithName overrides the module name
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix overrides the path the module mounts under
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithPorts injects ports the module consumes; their concrete type is owned by that module
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}
