// Package regions rebuilds nested, delimiter-bounded regions of a template
// from the linear stream of boundary events produced by a left-to-right scan.
//
// A start event carries the raw offset just past an opening marker; an end
// event carries the raw offset of a closing marker encoded as a negative
// number, plus the payload captured for the region. Both offsets are corrected
// for the two-character boundary markers.
//
//	k := regions.NewKeeper()
//	k.Feed(regions.Open(5))
//	k.Feed(regions.Open(8))
//	k.Feed(regions.Close(12, "inner"))
//	k.Feed(regions.Close(35, "outer"))
//	tree, err := k.Stop()
package regions
