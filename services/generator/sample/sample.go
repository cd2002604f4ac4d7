// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sample provides an explicitly seeded pseudo-random draw source.
//
// The pipeline owns exactly one Source per run, seeded once and never
// reseeded: every stage draws from the same order-dependent stream, so a
// (configuration, seed) pair is bit-reproducible. Distribution math comes
// from gonum's distuv; this package adds parameter-domain validation so that
// malformed configuration surfaces as an error instead of NaN output.
//
// Source is NOT safe for concurrent use. The pipeline is single-threaded by
// design; callers that parallelize must keep draw order fixed themselves.
package sample

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a seeded pseudo-random draw source.
type Source struct {
	seed uint64
	src  rand.Source
	rng  *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed uint64) *Source {
	src := rand.NewSource(seed)
	return &Source{
		seed: seed,
		src:  src,
		rng:  rand.New(src),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Bernoulli draws 0 or 1 with success probability p.
func (s *Source) Bernoulli(p float64) (float64, error) {
	if err := checkProb("p", p); err != nil {
		return 0, err
	}
	// distuv's Bernoulli requires p strictly inside the parameter domain it
	// validates; the boundary cases are exact, handle them directly.
	if p == 0 {
		return 0, nil
	}
	if p == 1 {
		return 1, nil
	}
	return distuv.Bernoulli{P: p, Src: s.src}.Rand(), nil
}

// Poisson draws a count with rate lambda. A zero rate yields zero, which is
// the correct degenerate Poisson and occurs legitimately for rows whose
// conditional rate collapses (e.g. no years of experience).
func (s *Source) Poisson(lambda float64) (float64, error) {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 0, NewParamError("lambda", lambda, ErrNotFinite)
	}
	if lambda < 0 {
		return 0, NewParamError("lambda", lambda, ErrNegativeRate)
	}
	if lambda == 0 {
		return 0, nil
	}
	return distuv.Poisson{Lambda: lambda, Src: s.src}.Rand(), nil
}

// Binomial draws a count of successes in n trials with probability p.
func (s *Source) Binomial(n int, p float64) (float64, error) {
	if n < 0 {
		return 0, NewParamError("n", float64(n), ErrInvalidTrials)
	}
	if err := checkProb("p", p); err != nil {
		return 0, err
	}
	if n == 0 || p == 0 {
		return 0, nil
	}
	if p == 1 {
		return float64(n), nil
	}
	return distuv.Binomial{N: float64(n), P: p, Src: s.src}.Rand(), nil
}

// Normal draws a real value with mean mu and standard deviation sigma.
func (s *Source) Normal(mu, sigma float64) (float64, error) {
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return 0, NewParamError("mu", mu, ErrNotFinite)
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return 0, NewParamError("sigma", sigma, ErrNotFinite)
	}
	if sigma <= 0 {
		return 0, NewParamError("sigma", sigma, ErrInvalidSigma)
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand(), nil
}

// Perm returns a pseudo-random permutation of [0,n), consuming the shared
// stream. The partitioner uses it for reproducible split assignment.
func (s *Source) Perm(n int) []int {
	return s.rng.Perm(n)
}

// checkProb validates p is a finite probability in [0,1].
func checkProb(name string, p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return NewParamError(name, p, ErrNotFinite)
	}
	if p < 0 || p > 1 {
		return NewParamError(name, p, ErrInvalidProbability)
	}
	return nil
}
