package recordnum

import "context"

// CounterStore increments named counters and returns the new value.
type CounterStore interface {
	Increment(ctx context.Context, name string) (int64, error)
}
