// Package optimize provides a derivative-free bound-constrained
// minimiser in the style of Powell's BOBYQA: a trust-region method over
// a quadratic model interpolating the objective at a small set of
// points near the current iterate. It never evaluates derivatives, the
// only budget is the number of objective calls, and a run is fully
// deterministic for a given starting point, bounds and budget.
package optimize

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrBadBounds indicates malformed lower/upper bound vectors.
	ErrBadBounds = errors.New("optimize: malformed bounds")
	// ErrInfeasibleStart indicates a starting point outside the bounds.
	ErrInfeasibleStart = errors.New("optimize: starting point violates bounds")
	// ErrBadBudget indicates a non-positive objective call budget.
	ErrBadBudget = errors.New("optimize: function call budget must be positive")
	// ErrBadConditions indicates an interpolation condition count outside
	// the admissible range [n+2, (n+1)(n+2)/2].
	ErrBadConditions = errors.New("optimize: interpolation condition count out of range")
)

// BOBYQA configures a minimisation. Lower and Upper are the box
// constraints, one entry per variable. InterpolationConditions is the
// number of points the quadratic model interpolates, between n+2 (the
// minimum: a coarse model that is cheap to rebuild) and (n+1)(n+2)/2
// (a full quadratic); zero selects n+2. MaxFunctionCalls bounds the
// number of objective evaluations. RhoBegin and RhoEnd are the initial
// and final sampling radii; zero selects the defaults, a tenth of the
// widest bound range for RhoBegin and 1e-8 for RhoEnd.
type BOBYQA struct {
	Lower                   []float64
	Upper                   []float64
	InterpolationConditions int
	MaxFunctionCalls        int
	RhoBegin                float64
	RhoEnd                  float64
}

// state carries one minimisation run.
type state struct {
	conf      *BOBYQA
	objective func([]float64) float64
	evals     int
	best      []float64
	bestF     float64
}

// Minimize drives x to a local minimiser of objective within the box,
// starting from the feasible point x. On return x holds the best point
// evaluated and the best value is returned. Running out of budget is
// not an error: the best point seen so far is kept. The final value
// never exceeds the objective at the starting point, because the
// starting point is part of the evaluated set.
func (b *BOBYQA) Minimize(objective func([]float64) float64, x []float64) (float64, error) {
	n := len(x)
	if len(b.Lower) != n || len(b.Upper) != n {
		return 0, fmt.Errorf("%w: %d variables, %d lower, %d upper",
			ErrBadBounds, n, len(b.Lower), len(b.Upper))
	}
	for i := 0; i < n; i++ {
		if b.Lower[i] > b.Upper[i] {
			return 0, fmt.Errorf("%w: lower[%d] %v > upper[%d] %v",
				ErrBadBounds, i, b.Lower[i], i, b.Upper[i])
		}
		if x[i] < b.Lower[i] || x[i] > b.Upper[i] {
			return 0, fmt.Errorf("%w: x[%d] = %v outside [%v, %v]",
				ErrInfeasibleStart, i, x[i], b.Lower[i], b.Upper[i])
		}
	}
	if b.MaxFunctionCalls <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadBudget, b.MaxFunctionCalls)
	}
	npt := b.InterpolationConditions
	if npt == 0 {
		npt = n + 2
	}
	if n > 0 && (npt < n+2 || npt > (n+1)*(n+2)/2) {
		return 0, fmt.Errorf("%w: %d for %d variables", ErrBadConditions, npt, n)
	}

	s := &state{conf: b, objective: objective, best: make([]float64, n)}
	copy(s.best, x)
	s.bestF = s.eval(x)
	if n > 0 {
		s.run(x, npt)
	}
	copy(x, s.best)
	return s.bestF, nil
}

// eval calls the objective, counts the call and tracks the best point.
func (s *state) eval(p []float64) float64 {
	s.evals++
	f := s.objective(p)
	if f < s.bestF {
		s.bestF = f
		copy(s.best, p)
	}
	return f
}

func (s *state) exhausted() bool {
	return s.evals >= s.conf.MaxFunctionCalls
}

func (s *state) run(x []float64, npt int) {
	n := len(x)
	rho := s.conf.RhoBegin
	if rho <= 0 {
		span := 0.0
		for i := 0; i < n; i++ {
			if r := s.conf.Upper[i] - s.conf.Lower[i]; r > span {
				span = r
			}
		}
		if span == 0 {
			return // every variable is fixed by the bounds
		}
		rho = span / 10
	}
	rhoEnd := s.conf.RhoEnd
	if rhoEnd <= 0 {
		rhoEnd = 1e-8
	}
	// Curvature gets whatever interpolation conditions remain once the
	// base point and one point per coordinate are spent.
	curvatures := npt - n - 1

	cur := make([]float64, n)
	copy(cur, x)
	fcur := s.bestF
	grad := make([]float64, n)
	hess := make([]float64, n)
	steps := make([]float64, n)
	trial := make([]float64, n)
	d := make([]float64, n)
	delta := rho

	for !s.exhausted() && rho > rhoEnd {
		fcur = s.buildModel(cur, fcur, rho, curvatures, grad, hess, steps, trial)
		if s.exhausted() {
			return
		}
		predicted := s.solveTrustRegion(cur, grad, hess, delta, d)
		if predicted >= 0 {
			// The model sees no descent at this resolution.
			rho /= 10
			delta = rho
			continue
		}
		atBound := false
		for i := 0; i < n; i++ {
			trial[i] = cur[i] + d[i]
			if d[i] == delta || d[i] == -delta {
				atBound = true
			}
		}
		fNew := s.eval(trial)
		ratio := (fcur - fNew) / -predicted
		if fNew < fcur {
			copy(cur, trial)
			fcur = fNew
		}
		switch {
		case ratio >= 0.7 && atBound:
			delta *= 2
		case ratio < 0.1:
			delta /= 2
			if delta < rho {
				rho /= 10
				delta = rho
			}
		}
	}
}

// buildModel interpolates a quadratic with diagonal curvature around
// cur: one sample per coordinate fixes the gradient, and the remaining
// interpolation conditions buy curvature along the coordinates with the
// steepest model slope. Sampled points still count against the budget
// and against the best-so-far tracking. Returns the value at cur.
func (s *state) buildModel(cur []float64, fcur, rho float64, curvatures int, grad, hess, steps, trial []float64) float64 {
	n := len(cur)
	copy(trial, cur)
	for i := 0; i < n; i++ {
		grad[i] = 0
		hess[i] = 0
		steps[i] = 0
		if s.exhausted() {
			return fcur
		}
		step := rho
		if cur[i]+step > s.conf.Upper[i] {
			step = -rho
		}
		if cur[i]+step < s.conf.Lower[i] {
			continue // bounds leave no room to sample this coordinate
		}
		steps[i] = step
		trial[i] = cur[i] + step
		fi := s.eval(trial)
		trial[i] = cur[i]
		grad[i] = (fi - fcur) / step
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := grad[order[a]], grad[order[b]]
		if ga < 0 {
			ga = -ga
		}
		if gb < 0 {
			gb = -gb
		}
		return ga > gb
	})
	for k := 0; k < curvatures && k < n; k++ {
		if s.exhausted() {
			break
		}
		i := order[k]
		if steps[i] == 0 || grad[i] == 0 {
			continue
		}
		opposite := cur[i] - steps[i]
		if opposite < s.conf.Lower[i] || opposite > s.conf.Upper[i] {
			continue
		}
		trial[i] = opposite
		fo := s.eval(trial)
		trial[i] = cur[i]
		forward := grad[i]*steps[i] + fcur // value at the forward sample
		hess[i] = (forward + fo - 2*fcur) / (steps[i] * steps[i])
	}
	return fcur
}

// solveTrustRegion minimises the separable model g·d + ½·Σ hᵢdᵢ² over
// the intersection of the box constraints and the ∞-norm trust region
// of radius delta around cur, writing the step into d and returning the
// predicted model change (negative means descent).
func (s *state) solveTrustRegion(cur, grad, hess []float64, delta float64, d []float64) float64 {
	for i := range d {
		lo := s.conf.Lower[i] - cur[i]
		hi := s.conf.Upper[i] - cur[i]
		if lo < -delta {
			lo = -delta
		}
		if hi > delta {
			hi = delta
		}
		d[i] = minimizeQuad(grad[i], hess[i], lo, hi)
	}
	predicted := floats.Dot(grad, d)
	for i := range d {
		predicted += 0.5 * hess[i] * d[i] * d[i]
	}
	return predicted
}

// minimizeQuad minimises g·t + ½·h·t² over [lo, hi].
func minimizeQuad(g, h, lo, hi float64) float64 {
	if lo > hi {
		return 0
	}
	value := func(t float64) float64 { return g*t + 0.5*h*t*t }
	best, bestV := 0.0, 0.0
	if lo <= 0 && 0 <= hi {
		// keep t = 0 as the baseline when feasible
	} else {
		best = lo
		bestV = value(lo)
	}
	for _, t := range []float64{lo, hi} {
		if v := value(t); v < bestV {
			best, bestV = t, v
		}
	}
	if h > 0 {
		if t := -g / h; t >= lo && t <= hi {
			if v := value(t); v < bestV {
				best, bestV = t, v
			}
		}
	}
	return best
}
