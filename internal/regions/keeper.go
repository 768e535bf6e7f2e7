package regions

import (
	"errors"
	"fmt"
	"slices"
)

// MarkerWidth is the width of an opening or closing boundary marker.
const MarkerWidth = 2

var (
	// ErrNoOpenRegion is returned when an end event arrives with no region open.
	ErrNoOpenRegion = errors.New("no open region")
	// ErrUnclosedRegion is returned by Stop while regions are still open.
	ErrUnclosedRegion = errors.New("unclosed region")
	// ErrStopped is returned when events are fed after Stop.
	ErrStopped = errors.New("keeper stopped")
)

// Node is one region. Inner holds the directly nested regions in document order.
type Node struct {
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Elements any     `json:"elements"`
	Inner    []*Node `json:"inner"`
}

// Event is one boundary event. Non-negative offsets open a region, negative
// offsets close the innermost open region.
type Event struct {
	Offset  int
	Payload any
}

// Open returns the start event for a region whose opening marker ends at offset.
func Open(offset int) Event {
	return Event{Offset: offset}
}

// Close returns the end event for a region whose closing marker starts at
// offset, carrying the captured payload.
func Close(offset int, payload any) Event {
	return Event{Offset: -offset, Payload: payload}
}

// IsStart reports whether e opens a region.
func (e Event) IsStart() bool {
	return e.Offset >= 0
}

// Keeper consumes boundary events one at a time. It holds the regions built
// so far and the path of currently open regions; it performs no I/O.
type Keeper struct {
	roots   []*Node
	open    []*Node
	path    []int
	stopped bool
}

// NewKeeper returns an empty keeper.
func NewKeeper() *Keeper {
	return &Keeper{}
}

// Feed consumes one event and returns the index path of the open regions
// after it: path[i] is the position of the open region at depth i among its
// siblings.
func (k *Keeper) Feed(e Event) ([]int, error) {
	if k.stopped {
		return nil, ErrStopped
	}

	if e.IsStart() {
		k.push(e.Offset - MarkerWidth)
		return k.Path(), nil
	}

	if len(k.open) == 0 {
		return nil, fmt.Errorf("end at %d: %w", -e.Offset, ErrNoOpenRegion)
	}
	k.pop(-e.Offset+MarkerWidth, e.Payload)
	return k.Path(), nil
}

// Stop finishes the stream and returns the regions. Every region must be closed.
func (k *Keeper) Stop() ([]*Node, error) {
	if k.stopped {
		return nil, ErrStopped
	}
	if len(k.open) > 0 {
		innermost := k.open[len(k.open)-1]
		return nil, fmt.Errorf("%d open, innermost starts at %d: %w", len(k.open), innermost.Start, ErrUnclosedRegion)
	}
	k.stopped = true
	return k.roots, nil
}

// Path returns a copy of the index path of the open regions.
func (k *Keeper) Path() []int {
	return slices.Clone(k.path)
}

// Depth returns the number of open regions.
func (k *Keeper) Depth() int {
	return len(k.open)
}

func (k *Keeper) push(start int) {
	node := &Node{Start: start, Inner: []*Node{}}

	siblings := &k.roots
	if n := len(k.open); n > 0 {
		siblings = &k.open[n-1].Inner
	}
	*siblings = append(*siblings, node)

	k.path = append(k.path, len(*siblings)-1)
	k.open = append(k.open, node)
}

func (k *Keeper) pop(end int, payload any) {
	n := len(k.open) - 1
	node := k.open[n]
	node.End = end
	node.Elements = payload

	k.open = k.open[:n]
	k.path = k.path[:n]
}

// Build feeds every event to a fresh keeper and stops it.
func Build(events []Event) ([]*Node, error) {
	k := NewKeeper()
	for i, e := range events {
		if _, err := k.Feed(e); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return k.Stop()
}
