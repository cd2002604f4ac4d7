// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlens/recruitgen/services/generator/sample"
)

// testRow is a map-backed Row for exercising parameter functions directly.
type testRow map[string]float64

func (r testRow) Value(name string) float64 { return r[name] }

// featureDef fetches a named definition from the recruiting registry.
func featureDef(t *testing.T, name string) FeatureDef {
	t.Helper()
	reg, err := NewRecruitingRegistry()
	require.NoError(t, err)
	for _, def := range reg.Features() {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("feature %q not in registry", name)
	return FeatureDef{}
}

// TestNewRecruitingRegistry_Order verifies the generation order matches the
// dependency structure of the recruiting graph.
func TestNewRecruitingRegistry_Order(t *testing.T) {
	reg, err := NewRecruitingRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{ColSexMale, ColRaceWhite}, reg.Base())
	assert.Equal(t, []string{
		ColYearsExperience,
		ColReferred,
		ColGCSE,
		ColALevel,
		ColRussellGroup,
		ColHonours,
		ColYearsVolunteer,
		ColIncome,
		ColITSkills,
		ColYearsGaps,
		ColQualityCV,
	}, reg.Names())
}

// TestRecruiting_Referred verifies the referral probability formula and that
// the clamp keeps the top cell in-domain (0.2+0.4+0.3 = 0.9).
func TestRecruiting_Referred(t *testing.T) {
	def := featureDef(t, ColReferred)

	p, err := def.Params(testRow{ColSexMale: 1, ColRaceWhite: 1}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, p.P, 1e-12)

	p, err = def.Params(testRow{}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, p.P, 1e-12)
}

// TestRecruiting_GCSE verifies the exam-score distribution parameters.
func TestRecruiting_GCSE(t *testing.T) {
	def := featureDef(t, ColGCSE)

	p, err := def.Params(testRow{ColRaceWhite: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Trials)
	assert.InDelta(t, 0.75, p.P, 1e-12)

	p, err = def.Params(testRow{ColRaceWhite: 0}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, p.P, 1e-12)
}

// TestRecruiting_ALevel verifies the A-level probability, including the
// GCSE-score dependence.
func TestRecruiting_ALevel(t *testing.T) {
	def := featureDef(t, ColALevel)

	p, err := def.Params(testRow{ColGCSE: 10, ColRaceWhite: 1, ColSexMale: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Trials)
	assert.InDelta(t, 0.95, p.P, 1e-12)

	p, err = def.Params(testRow{ColGCSE: 0, ColRaceWhite: 0, ColSexMale: 1}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.35, p.P, 1e-12)
}

// TestRecruiting_RussellGroup verifies all three branches of the admission
// rule.
func TestRecruiting_RussellGroup(t *testing.T) {
	def := featureDef(t, ColRussellGroup)

	p, err := def.Params(testRow{ColALevel: 4, ColGCSE: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.8, p.P)

	p, err = def.Params(testRow{ColALevel: 3, ColGCSE: 7}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.4, p.P)

	p, err = def.Params(testRow{ColALevel: 3, ColGCSE: 6}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.1, p.P)

	p, err = def.Params(testRow{ColALevel: 2, ColGCSE: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.1, p.P)
}

// TestRecruiting_Honours verifies the Russell-group shortcut and the
// A-level-driven fallback.
func TestRecruiting_Honours(t *testing.T) {
	def := featureDef(t, ColHonours)

	p, err := def.Params(testRow{ColRussellGroup: 1, ColALevel: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.9, p.P)

	p, err = def.Params(testRow{ColRussellGroup: 0, ColALevel: 4}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, p.P, 1e-12)
}

// TestRecruiting_Income verifies the income location/scale formulas and the
// floor quantization, including the negative tail.
func TestRecruiting_Income(t *testing.T) {
	def := featureDef(t, ColIncome)

	p, err := def.Params(testRow{ColRussellGroup: 1, ColRaceWhite: 1, ColYearsExperience: 4}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 30000, p.Mu, 1e-9)
	assert.InDelta(t, 5000, p.Sigma, 1e-9)

	require.NotNil(t, def.Transform)
	assert.Equal(t, 30000.0, def.Transform(30125))
	assert.Equal(t, 29750.0, def.Transform(29999.99))
	assert.Equal(t, -250.0, def.Transform(-10))
	assert.Equal(t, 0.0, def.Transform(0))
}

// TestRecruiting_ITSkills verifies the IT-skills probability formula.
func TestRecruiting_ITSkills(t *testing.T) {
	def := featureDef(t, ColITSkills)

	p, err := def.Params(testRow{ColSexMale: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Trials)
	assert.InDelta(t, 0.7, p.P, 1e-12)
}

// TestRecruiting_YearsGaps verifies the gap rate formula, including the
// demographic discounts.
func TestRecruiting_YearsGaps(t *testing.T) {
	def := featureDef(t, ColYearsGaps)

	p, err := def.Params(testRow{ColSexMale: 0, ColRaceWhite: 0, ColYearsExperience: 10}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Lambda, 1e-12)

	p, err = def.Params(testRow{ColSexMale: 1, ColRaceWhite: 1, ColYearsExperience: 10}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.Lambda, 1e-12)
}

// TestRecruiting_ConstantFeatures verifies the demographic-independent
// features.
func TestRecruiting_ConstantFeatures(t *testing.T) {
	vol := featureDef(t, ColYearsVolunteer)
	p, err := vol.Params(testRow{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, p.Lambda)

	cv := featureDef(t, ColQualityCV)
	p, err = cv.Params(testRow{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Trials)
	assert.Equal(t, 0.6, p.P)
}

// TestRecruiting_YearsExperience verifies the experience rate stays
// non-negative and reflects the demographic bonuses; the hidden age draw
// comes from the provided source, so a source is required.
func TestRecruiting_YearsExperience(t *testing.T) {
	def := featureDef(t, ColYearsExperience)

	src := sample.New(7)
	p, err := def.Params(testRow{ColSexMale: 1, ColRaceWhite: 1}, src)
	require.NoError(t, err)
	// 0.4*max(age-22, 0) + 0.2 + 0.1, so never below the demographic floor.
	assert.GreaterOrEqual(t, p.Lambda, 0.3)
}

// TestRecruiting_YearsExperience_Deterministic verifies the hidden age draw
// is pinned by the source seed.
func TestRecruiting_YearsExperience_Deterministic(t *testing.T) {
	def := featureDef(t, ColYearsExperience)

	p1, err := def.Params(testRow{}, sample.New(99))
	require.NoError(t, err)
	p2, err := def.Params(testRow{}, sample.New(99))
	require.NoError(t, err)
	assert.Equal(t, p1.Lambda, p2.Lambda)
}

// TestRecruitingOutcome verifies the fixed coefficients and the score
// arithmetic.
func TestRecruitingOutcome(t *testing.T) {
	m := RecruitingOutcome()

	assert.Equal(t, -15.0, m.Offset)
	assert.Equal(t, 2.0, m.Coefficients[ColReferred])
	assert.Equal(t, -0.5, m.Coefficients[ColYearsGaps])
	assert.Equal(t, 0.8, m.Coefficients[ColRaceWhite])
	assert.Equal(t, 0.5, m.Coefficients[ColSexMale])
	assert.Len(t, m.Coefficients, len(m.Inputs()))

	// All-zero row scores exactly the offset.
	assert.Equal(t, -15.0, m.Score(testRow{}))

	// One referral and five years of experience.
	score := m.Score(testRow{ColReferred: 1, ColYearsExperience: 5})
	assert.InDelta(t, -8.0, score, 1e-12)
}
