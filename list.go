package goplot

// lanes is the arena behind multi-valued plots. Lane k holds the k-th
// value of every cell pushed so far; a cell with fewer values leaves blank
// in the remaining lanes, and a lane created late is backfilled with blank
// for every earlier cell, so all lanes always have the same length.
type lanes[T any] struct {
	blank T
	cells int
	data  [][]T
}

func newLanes[T any](blank T) *lanes[T] {
	return &lanes[T]{blank: blank, data: make([][]T, 0, 2)}
}

// push appends one cell.
func (l *lanes[T]) push(values []T) {
	for len(l.data) < len(values) {
		l.data = append(l.data, l.backfill())
	}
	for k := range l.data {
		if k < len(values) {
			l.data[k] = append(l.data[k], values[k])
		} else {
			l.data[k] = append(l.data[k], l.blank)
		}
	}
	l.cells++
}

func (l *lanes[T]) backfill() []T {
	lane := make([]T, l.cells, l.cells+1)
	for i := range lane {
		lane[i] = l.blank
	}
	return lane
}

// count returns the number of lanes.
func (l *lanes[T]) count() int { return len(l.data) }

// lane returns lane k. Its length equals the number of pushed cells.
func (l *lanes[T]) lane(k int) []T { return l.data[k] }
