package cluster

import "strconv"

// Version is the totally-ordered version of the nodes configuration. Versions
// observed by any single manager instance over time are non-decreasing; the
// external store's conditional write is what enforces that two writers can never
// both win the same version.
type Version uint64

// EmptyVersion is the reserved sentinel denoting that no configuration has been
// published yet. A store whose record is absent or empty behaves, for the purpose
// of conditional writes, as if it held a configuration at EmptyVersion.
const EmptyVersion Version = 0

// Next returns the immediately following version.
func (v Version) Next() Version {
	return v + 1
}

func (v Version) String() string {
	return strconv.FormatUint(uint64(v), 10)
}
