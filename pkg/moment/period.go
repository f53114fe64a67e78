package moment

import (
	"strconv"
	"strings"
	"time"
)

// Period counts units per grain, e.g. 2 hours and 30 minutes.
type Period [GrainYear + 1]int

// PeriodOf returns a period of n units of g.
func PeriodOf(g Grain, n int) Period {
	var p Period
	p[g] = n
	return p
}

// Plus adds two periods component-wise.
func (p Period) Plus(o Period) Period {
	for g := range p {
		p[g] += o[g]
	}
	return p
}

// Neg negates every component.
func (p Period) Neg() Period {
	for g := range p {
		p[g] = -p[g]
	}
	return p
}

// IsZero reports whether all components are zero.
func (p Period) IsZero() bool {
	return p == Period{}
}

// FinestGrain returns the finest grain with a non-zero component, GrainSecond
// for the zero period.
func (p Period) FinestGrain() Grain {
	for g := GrainSecond; g <= GrainYear; g++ {
		if p[g] != 0 {
			return g
		}
	}
	return GrainSecond
}

// CoarsestGrain returns the coarsest grain with a non-zero component.
func (p Period) CoarsestGrain() Grain {
	for g := GrainYear; g >= GrainSecond; g-- {
		if p[g] != 0 {
			return g
		}
	}
	return GrainSecond
}

// ApplyTo shifts t by the period, coarsest grain first.
func (p Period) ApplyTo(t time.Time) time.Time {
	for g := GrainYear; g >= GrainSecond; g-- {
		if p[g] != 0 {
			t = Add(t, g, p[g])
		}
	}
	return t
}

// Seconds approximates the period length in seconds.
func (p Period) Seconds() int64 {
	var total int64
	for g, n := range p {
		total += int64(n) * int64(Grain(g).Approx()/time.Second)
	}
	return total
}

func (p Period) String() string {
	var parts []string
	for g := GrainYear; g >= GrainSecond; g-- {
		if p[g] != 0 {
			parts = append(parts, strconv.Itoa(p[g])+" "+g.String())
		}
	}
	if len(parts) == 0 {
		return "0 second"
	}
	return strings.Join(parts, " ")
}
