// Package field evaluates zeta potential fields over complex-plane grids.
//
// For every sample point s = sigma + i*t the evaluator produces a [Cell]
// holding:
//
//   - |ζ(s)|: zeta magnitude
//   - V = |ζ(s)|^-2: potential, attracted to zeros, ceiling-clipped
//   - C = alpha*(sigma-0.5)^2: collapse penalty for leaving the critical line
//   - T = V + C: total potential
//
// Points below the zero threshold and within the line tolerance of
// sigma = 0.5 become [Candidate] entries, ordered by ascending height.
// The pole at s = 1 is tagged singular rather than evaluated, so a grid
// crossing it still fills every other cell.
//
// # Example
//
//	g, _ := grid.Build(grid.Rect{ReMin: 0.4, ReMax: 0.6, ImMin: 0, ImMax: 50, Step: 0.1})
//	res, _ := field.Evaluate(g, field.DefaultParams(), compute.Auto())
//	for _, c := range res.Candidates {
//		fmt.Printf("zero near t=%.4f\n", c.T)
//	}
//
// Evaluation is a pure transform: same grid, parameters, and any backend
// give identical results.
package field
