package conversation

import "math"

const (
	DefaultTopK = 3
	MinTopK     = 1
	MaxTopK     = 10

	DefaultSimilarityCutoff = 0.5
	MinSimilarityCutoff     = 0.0
	MaxSimilarityCutoff     = 1.0
)

// Controls holds the retrieval parameters attached to the next question.
// Values are clamped when set, so they are always within range.
type Controls struct {
	topK             int
	similarityCutoff float64
}

func NewControls() Controls {
	return Controls{
		topK:             DefaultTopK,
		similarityCutoff: DefaultSimilarityCutoff,
	}
}

func (c Controls) TopK() int {
	return c.topK
}

func (c Controls) SimilarityCutoff() float64 {
	return c.similarityCutoff
}

// SetTopK stores v clamped to [MinTopK, MaxTopK] and returns the stored value.
func (c *Controls) SetTopK(v int) int {
	c.topK = min(MaxTopK, max(MinTopK, v))
	return c.topK
}

// SetSimilarityCutoff stores v clamped to [0, 1] and returns the stored value.
// NaN leaves the current value in place.
func (c *Controls) SetSimilarityCutoff(v float64) float64 {
	if math.IsNaN(v) {
		return c.similarityCutoff
	}
	c.similarityCutoff = math.Min(MaxSimilarityCutoff, math.Max(MinSimilarityCutoff, v))
	return c.similarityCutoff
}

func (c *Controls) Reset() {
	*c = NewControls()
}
