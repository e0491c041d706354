package dimensions

// Kind distinguishes base from derived dimensions.
type Kind int

const (
	KindBase Kind = iota
	KindDerived
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}
