package resolver

import (
	"time"

	"github.com/kittclouds/ontokit/pkg/moment"
)

// Context carries what context-sensitive values are resolved against.
type Context struct {
	ReferenceTime time.Time
	Location      *time.Location
	DefaultGrain  moment.Grain // grain of expressions that leave it open ("now")
	WeekStart     time.Weekday
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLocation sets the time zone values are grounded in.
func WithLocation(loc *time.Location) ContextOption {
	return func(c *Context) { c.Location = loc }
}

// WithDefaultGrain sets the grain used when an expression has none.
func WithDefaultGrain(g moment.Grain) ContextOption {
	return func(c *Context) { c.DefaultGrain = g }
}

// WithWeekStart sets the first day of the week for "this week" style cycles.
func WithWeekStart(d time.Weekday) ContextOption {
	return func(c *Context) { c.WeekStart = d }
}

// NewContext returns a context at ref. The location defaults to ref's,
// the grain to second and the week start to Monday.
func NewContext(ref time.Time, opts ...ContextOption) Context {
	c := Context{
		ReferenceTime: ref,
		Location:      ref.Location(),
		DefaultGrain:  moment.GrainSecond,
		WeekStart:     time.Monday,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

// DefaultContext is NewContext at the current instant in the local zone.
func DefaultContext() Context {
	return NewContext(time.Now(), WithLocation(time.Local))
}

func (c Context) now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = c.ReferenceTime.Location()
	}
	return c.ReferenceTime.In(loc)
}
