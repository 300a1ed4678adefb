// Package zeta evaluates the Riemann zeta function on the complex plane.
//
// The [Evaluator] uses Euler–Maclaurin summation: a direct sum of k^-s up
// to a truncation point N, the integral and half-term corrections, and
// eight Bernoulli-number tail terms:
//
//	ζ(s) = Σ k^-s + N^(1-s)/(s-1) + N^-s/2 + Σ B_2k/(2k)! · s(s+1)…(s+2k-2) · N^(-s-2k+1)
//
// N grows with |Im s| so the relative error stays bounded over the whole
// critical strip; the configured term count trades time for margin at
// small heights.
//
// # Example
//
//	ev, _ := zeta.New(64)
//	z := ev.Eval(complex(0.5, 14.134725))
//	// |z| vanishes at the first nontrivial zero
//
// Evaluators carry no mutable state: one instance can serve every point of
// a parallel field evaluation.
package zeta
