package clock

import "time"

// Clock provides the current time so token expiry can be tested.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func New() RealClock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Mock is a manually driven Clock.
type Mock struct {
	CurrentTime time.Time
}

func NewMock(t time.Time) *Mock {
	return &Mock{CurrentTime: t}
}

func (c *Mock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by d.
func (c *Mock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}
