package domain

// Resource bounds. Treasury is currency-like: it clamps at the floor but has
// no ceiling. The other three are bounded on both ends.
const (
	ResourceFloor   = 0
	ResourceCeiling = 100
)

// Resources holds the four shared levels the group manages.
type Resources struct {
	Treasury       int `json:"treasury"`
	Welfare        int `json:"welfare"`
	Stability      int `json:"stability"`
	Infrastructure int `json:"infrastructure"`
}

// ResourceDelta is a signed change applied to Resources.
type ResourceDelta struct {
	Treasury       int `json:"treasury"`
	Welfare        int `json:"welfare"`
	Stability      int `json:"stability"`
	Infrastructure int `json:"infrastructure"`
}

// IsZero reports whether the delta changes nothing.
func (d ResourceDelta) IsZero() bool {
	return d == ResourceDelta{}
}

// Apply returns the resources after the delta, clamped to their bounds.
func (r Resources) Apply(d ResourceDelta) Resources {
	return Resources{
		Treasury:       clampFloor(r.Treasury + d.Treasury),
		Welfare:        clampBoth(r.Welfare + d.Welfare),
		Stability:      clampBoth(r.Stability + d.Stability),
		Infrastructure: clampBoth(r.Infrastructure + d.Infrastructure),
	}
}

// Min returns the lowest of the four levels.
func (r Resources) Min() int {
	min := r.Treasury
	for _, v := range []int{r.Welfare, r.Stability, r.Infrastructure} {
		if v < min {
			min = v
		}
	}
	return min
}

// Avg returns the mean of the four levels.
func (r Resources) Avg() float64 {
	return float64(r.Treasury+r.Welfare+r.Stability+r.Infrastructure) / 4
}

// AtFloor returns the names of resources sitting at the floor.
func (r Resources) AtFloor() []string {
	var out []string
	for name, v := range r.byName() {
		if v <= ResourceFloor {
			out = append(out, name)
		}
	}
	return out
}

// NewlyMaxed returns the names of resources that reached the ceiling in next
// but had not in prev. Treasury counts once it passes the bounded ceiling
// even though it is not capped there.
func NewlyMaxed(prev, next Resources) []string {
	var out []string
	pm, nm := prev.byName(), next.byName()
	for _, name := range resourceNames {
		if nm[name] >= ResourceCeiling && pm[name] < ResourceCeiling {
			out = append(out, name)
		}
	}
	return out
}

var resourceNames = []string{"treasury", "welfare", "stability", "infrastructure"}

func (r Resources) byName() map[string]int {
	return map[string]int{
		"treasury":       r.Treasury,
		"welfare":        r.Welfare,
		"stability":      r.Stability,
		"infrastructure": r.Infrastructure,
	}
}

func clampBoth(v int) int {
	if v < ResourceFloor {
		return ResourceFloor
	}
	if v > ResourceCeiling {
		return ResourceCeiling
	}
	return v
}

func clampFloor(v int) int {
	if v < ResourceFloor {
		return ResourceFloor
	}
	return v
}
