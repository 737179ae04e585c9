package marketdata

import "stocksim/internal/model"

// historyCap bounds the number of retained points per symbol. The oldest
// point is evicted first once the bound is reached.
const historyCap = 100

type History struct {
	points []model.PricePoint
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(point model.PricePoint) {
	h.points = append(h.points, point)
	if len(h.points) > historyCap {
		h.points = h.points[1:]
	}
}

// Points returns a copy of the retained points in chronological order.
func (h *History) Points() []model.PricePoint {
	out := make([]model.PricePoint, len(h.points))
	copy(out, h.points)
	return out
}
