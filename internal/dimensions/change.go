package dimensions

// Change describes one successful registry mutation. It is the payload of
// events delivered to Registry.Subscribe.
type Change struct {
	Kind       Kind
	Name       string
	Replaced   bool // an existing definition was displaced
	Generation uint64
}
