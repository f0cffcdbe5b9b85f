package bus

// Adapter is the interface every transport adapter satisfies. It is kept
// separate from Publisher so adapters can grow capabilities without
// changing what the Bus requires.
type Adapter interface {
	Publisher
}
