package lifecycle

type Lifecycle int

const (
	PerRequest Lifecycle = iota
	Singleton
)

func (l Lifecycle) String() string {
	switch l {
	case PerRequest:
		return "per-request"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

func (l Lifecycle) Valid() bool {
	return l == PerRequest || l == Singleton
}
