package media

import "sync/atomic"

// Status is the lifecycle stage of a resource. It only moves forward.
type Status int32

const (
	Ready Status = iota
	Downloading
	Converting
	Done
)

// String returns the display name of the status.
func (s Status) String() string {
	switch s {
	case Downloading:
		return "Downloading"
	case Converting:
		return "Converting"
	case Done:
		return "Done"
	default:
		return "Ready"
	}
}

type statusCell struct {
	v atomic.Int32
}

func (c *statusCell) load() Status {
	return Status(c.v.Load())
}

// advance moves to next if it is later than the current status.
func (c *statusCell) advance(next Status) bool {
	for {
		cur := c.v.Load()
		if int32(next) <= cur {
			return false
		}
		if c.v.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// lowerTo stores v in c if it is below the current value.
func lowerTo(c *atomic.Int64, v int64) {
	if v < 0 {
		v = 0
	}
	for {
		cur := c.Load()
		if v >= cur {
			return
		}
		if c.CompareAndSwap(cur, v) {
			return
		}
	}
}
