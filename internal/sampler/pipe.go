package sampler

// sendOverflow is the idiomatic stand-in for an unbounded mpsc channel: Go
// channels are always bounded, so a blocking send on a full channel would
// let a slow consumer apply backpressure the spec does not want on these
// internal stages (each stage is meant to keep scanning/searching even if
// its downstream is momentarily behind). Instead this does a non-blocking
// send and, on a full channel, spins up a one-shot goroutine that blocks
// until the value is delivered — the channel itself is never resized, but
// the sender is never stalled waiting for buffer space.
func sendOverflow[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
		go func() { ch <- v }()
	}
}
