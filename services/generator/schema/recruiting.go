// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"math"

	"github.com/fairlens/recruitgen/services/generator/sample"
)

// Column names of the recruiting dataset. The demographic columns are base
// columns sampled before the feature registry runs; the rest are generated
// in the declared order below.
const (
	ColSexMale         = "sex_male"
	ColRaceWhite       = "race_white"
	ColYearsExperience = "years_experience"
	ColReferred        = "referred"
	ColGCSE            = "gcse"
	ColALevel          = "a_level"
	ColRussellGroup    = "russell_group"
	ColHonours         = "honours"
	ColYearsVolunteer  = "years_volunteer"
	ColIncome          = "income"
	ColITSkills        = "it_skills"
	ColYearsGaps       = "years_gaps"
	ColQualityCV       = "quality_cv"
	ColEmployed        = "employed_yes"
)

// Generative-model constants. These are load-bearing: the disparities they
// induce are exactly what downstream fairness analyses measure, so they are
// not tunable defaults.
const (
	assumedAgeRate   = 70  // assumed age ~ floor(Poisson(70)/2)
	workingAgeOffset = 22  // years before which no experience accrues
	incomeQuantum    = 250 // income rounds down to multiples of this
)

// NewRecruitingRegistry builds the fixed recruiting feature graph.
//
// The graph encodes implicit discrimination: several conditional
// distributions depend on the demographic columns, so demographic disparities
// propagate into facially neutral features. The explicit discrimination
// lives in the outcome model (see RecruitingOutcome), not here.
func NewRecruitingRegistry() (*Registry, error) {
	return NewBuilder(ColSexMale, ColRaceWhite).
		Add(FeatureDef{
			Name:      ColYearsExperience,
			DependsOn: []string{ColSexMale, ColRaceWhite},
			Family:    FamilyPoisson,
			Params: func(row Row, src *sample.Source) (Params, error) {
				// The assumed age is a hidden intermediate: drawn once per
				// row, used only to derive the experience rate, never
				// exported in the output schema.
				raw, err := src.Poisson(assumedAgeRate)
				if err != nil {
					return Params{}, err
				}
				age := math.Floor(raw / 2)
				rate := 0.4*math.Max(age-workingAgeOffset, 0) +
					0.2*row.Value(ColRaceWhite) +
					0.1*row.Value(ColSexMale)
				return Params{Lambda: ClampRate(rate)}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColReferred,
			DependsOn: []string{ColSexMale, ColRaceWhite},
			Family:    FamilyBernoulli,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				p := 0.2 + 0.4*row.Value(ColSexMale) + 0.3*row.Value(ColRaceWhite)
				return Params{P: ClampProb(p)}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColGCSE,
			DependsOn: []string{ColRaceWhite},
			Family:    FamilyBinomial,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				p := 0.6 + 0.15*row.Value(ColRaceWhite)
				return Params{Trials: 10, P: ClampProb(p)}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColALevel,
			DependsOn: []string{ColGCSE, ColRaceWhite, ColSexMale},
			Family:    FamilyBinomial,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				p := 0.4 + row.Value(ColGCSE)/20 +
					0.05*row.Value(ColRaceWhite) -
					0.05*row.Value(ColSexMale)
				return Params{Trials: 4, P: ClampProb(p)}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColRussellGroup,
			DependsOn: []string{ColALevel, ColGCSE},
			Family:    FamilyBernoulli,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				// Three-way admission rule on exam results.
				var p float64
				switch {
				case row.Value(ColALevel) == 4:
					p = 0.8
				case row.Value(ColALevel) == 3 && row.Value(ColGCSE) >= 7:
					p = 0.4
				default:
					p = 0.1
				}
				return Params{P: p}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColHonours,
			DependsOn: []string{ColRussellGroup, ColALevel},
			Family:    FamilyBernoulli,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				if row.Value(ColRussellGroup) == 1 {
					return Params{P: 0.9}, nil
				}
				p := 0.2 + 0.15*row.Value(ColALevel)
				return Params{P: ClampProb(p)}, nil
			},
		}).
		Add(FeatureDef{
			Name:   ColYearsVolunteer,
			Family: FamilyPoisson,
			Params: func(_ Row, _ *sample.Source) (Params, error) {
				return Params{Lambda: 0.5}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColIncome,
			DependsOn: []string{ColRussellGroup, ColRaceWhite, ColYearsExperience},
			Family:    FamilyNormal,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				rootExp := math.Sqrt(row.Value(ColYearsExperience))
				mu := 15000 + 3000*row.Value(ColRussellGroup) +
					2000*row.Value(ColRaceWhite) + 5000*rootExp
				sigma := 1000 + 2000*rootExp
				return Params{Mu: mu, Sigma: sigma}, nil
			},
			// Quantize down to the nearest 250-unit increment. Floor (not
			// truncation) so the rare negative tail draws behave like the
			// original floor division.
			Transform: func(x float64) float64 {
				return math.Floor(x/incomeQuantum) * incomeQuantum
			},
		}).
		Add(FeatureDef{
			Name:      ColITSkills,
			DependsOn: []string{ColSexMale},
			Family:    FamilyBinomial,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				p := 0.4 + 0.3*row.Value(ColSexMale)
				return Params{Trials: 3, P: ClampProb(p)}, nil
			},
		}).
		Add(FeatureDef{
			Name:      ColYearsGaps,
			DependsOn: []string{ColSexMale, ColRaceWhite, ColYearsExperience},
			Family:    FamilyPoisson,
			Params: func(row Row, _ *sample.Source) (Params, error) {
				rate := 0.2 * (1 - 0.5*row.Value(ColSexMale) - 0.25*row.Value(ColRaceWhite)) *
					row.Value(ColYearsExperience)
				return Params{Lambda: ClampRate(rate)}, nil
			},
		}).
		Add(FeatureDef{
			Name:   ColQualityCV,
			Family: FamilyBinomial,
			Params: func(_ Row, _ *sample.Source) (Params, error) {
				return Params{Trials: 3, P: 0.6}, nil
			},
		}).
		Build()
}

// OutcomeModel is the logistic generative model for the binary success label:
// sigmoid(sum(coefficient*column) + offset) gives the per-row success
// probability, and the label is a Bernoulli draw from it.
type OutcomeModel struct {
	Coefficients map[string]float64
	Offset       float64
}

// Inputs returns the column names the model reads, in a fixed order so that
// scoring is deterministic.
func (m OutcomeModel) Inputs() []string {
	return []string{
		ColReferred,
		ColYearsExperience,
		ColGCSE,
		ColALevel,
		ColRussellGroup,
		ColHonours,
		ColYearsGaps,
		ColQualityCV,
		ColITSkills,
		ColRaceWhite,
		ColSexMale,
	}
}

// Score computes the linear score for one row.
func (m OutcomeModel) Score(row Row) float64 {
	score := m.Offset
	for _, name := range m.Inputs() {
		score += m.Coefficients[name] * row.Value(name)
	}
	return score
}

// RecruitingOutcome returns the fixed outcome model of the recruiting
// dataset. The race_white and sex_male coefficients are the injected
// explicit-discrimination signal; everything upstream of them is the
// implicit path. Both are deliberate and must not be re-tuned.
func RecruitingOutcome() OutcomeModel {
	return OutcomeModel{
		Coefficients: map[string]float64{
			ColReferred:        2,
			ColYearsExperience: 1,
			ColGCSE:            0.5,
			ColALevel:          0.8,
			ColRussellGroup:    0.1,
			ColHonours:         0.1,
			ColYearsGaps:       -0.5,
			ColQualityCV:       0.4,
			ColITSkills:        0.4,
			ColRaceWhite:       0.8,
			ColSexMale:         0.5,
		},
		Offset: -15,
	}
}
