// Package packing fills a small rectangular bar with an irregular, dense
// arrangement of circles.
//
// # Overview
//
// The bar is the fixed-size decorative rectangle under a logo. This package
// produces the geometry for its "circles" texture: a list of [Circle] values
// in local bar coordinates (origin at the top-left corner). Nothing here draws
// or serializes; see the render/sink package for that.
//
// # Algorithm
//
// [Generate] runs a greedy largest-first heuristic in four phases:
//
//  1. [PlanPhases] derives four radius bands (large, medium, small, micro)
//     and attempt budgets from density, size variation and the bar area.
//  2. Each phase samples best-of-N candidates per attempt. Candidates that
//     leave the box or violate the separation rule are rejected; survivors
//     are ranked by [Score] and the winner is committed. A [SpatialIndex]
//     with cell size 2×(phase max radius) keeps collision queries local.
//  3. After every phase the covered-area fraction ([Coverage]) is compared
//     against 0.95×density/100; once reached, remaining phases are skipped.
//  4. A gap-filling pass ([IdentifyGaps]) samples free space, ranks gaps by
//     inscribable radius and drops circles into the largest ones.
//
// # Separation
//
// The overlap parameter controls how close circles may get. With
// [MinDistanceMultiplier] m, every pair in a run satisfies
//
//	distance(A, B) >= (A.R + B.R) * m
//
// where m is 2.0 at overlap 0 and falls linearly to 0.2 at overlap 100.
//
// # Randomness
//
// The algorithm is stochastic by design: identical parameters give different
// layouts on every call unless a fixed [Source] is injected with
// [WithSource] or [WithSeed]. Layouts converge statistically to the requested
// density, so coverage across reruns stays close to its mean.
//
// # Concurrency
//
// Generate holds no package-level state. Concurrent calls are safe as long as
// each call gets its own Source; a *rand.Rand must not be shared between
// goroutines.
package packing
