package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func TestFiscalYearDates(t *testing.T) {
	start := FiscalYearStartDate(2025)
	end := FiscalYearEndDate(2025)

	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), end)
	assert.True(t, start.Before(end))
}

func TestValidateHospitalChoices(t *testing.T) {
	hospitals := []*domain.Hospital{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	choices := func(pairs ...[2]int64) []*domain.HospitalChoice {
		result := make([]*domain.HospitalChoice, 0, len(pairs))
		for _, p := range pairs {
			result = append(result, &domain.HospitalChoice{Rank: int32(p[0]), HospitalID: p[1]})
		}
		return result
	}

	t.Run("正常な希望", func(t *testing.T) {
		assert.NoError(t, ValidateHospitalChoices(choices([2]int64{1, 1}, [2]int64{2, 2}, [2]int64{3, 3}), hospitals))
		assert.NoError(t, ValidateHospitalChoices(choices([2]int64{1, 4}), hospitals))
	})

	t.Run("空の希望", func(t *testing.T) {
		assert.Error(t, ValidateHospitalChoices(nil, hospitals))
	})

	t.Run("件数超過", func(t *testing.T) {
		err := ValidateHospitalChoices(choices([2]int64{1, 1}, [2]int64{2, 2}, [2]int64{3, 3}, [2]int64{4, 4}), hospitals)
		assert.Error(t, err)
	})

	t.Run("順位が範囲外", func(t *testing.T) {
		assert.Error(t, ValidateHospitalChoices(choices([2]int64{0, 1}), hospitals))
		assert.Error(t, ValidateHospitalChoices(choices([2]int64{4, 1}), hospitals))
	})

	t.Run("順位の重複", func(t *testing.T) {
		assert.Error(t, ValidateHospitalChoices(choices([2]int64{1, 1}, [2]int64{1, 2}), hospitals))
	})

	t.Run("存在しない病院", func(t *testing.T) {
		assert.Error(t, ValidateHospitalChoices(choices([2]int64{1, 999}), hospitals))
	})

	t.Run("病院の重複", func(t *testing.T) {
		assert.Error(t, ValidateHospitalChoices(choices([2]int64{1, 1}, [2]int64{2, 1}), hospitals))
	})
}

func TestValidateStaffFactorWeights(t *testing.T) {
	factors := []*domain.EvaluationFactor{
		{ID: 1, FactorType: domain.FactorTypeStaffPreference},
		{ID: 2, FactorType: domain.FactorTypeStaffPreference},
		{ID: 3, FactorType: domain.FactorTypeAdminEvaluation},
	}

	weights := func(pairs ...[2]float64) []*domain.StaffFactorWeight {
		result := make([]*domain.StaffFactorWeight, 0, len(pairs))
		for _, p := range pairs {
			result = append(result, &domain.StaffFactorWeight{FactorID: int64(p[0]), Weight: p[1]})
		}
		return result
	}

	t.Run("合計がちょうど 100", func(t *testing.T) {
		assert.NoError(t, ValidateStaffFactorWeights(weights([2]float64{1, 60}, [2]float64{2, 40}), factors))
		assert.NoError(t, ValidateStaffFactorWeights(weights([2]float64{1, 100}), factors))
	})

	t.Run("空の重み", func(t *testing.T) {
		assert.Error(t, ValidateStaffFactorWeights(nil, factors))
	})

	t.Run("重みが範囲外", func(t *testing.T) {
		assert.Error(t, ValidateStaffFactorWeights(weights([2]float64{1, -10}, [2]float64{2, 110}), factors))
	})

	t.Run("医局側評価の要素は指定できない", func(t *testing.T) {
		assert.Error(t, ValidateStaffFactorWeights(weights([2]float64{3, 100}), factors))
	})

	t.Run("要素の重複", func(t *testing.T) {
		assert.Error(t, ValidateStaffFactorWeights(weights([2]float64{1, 50}, [2]float64{1, 50}), factors))
	})

	t.Run("合計が 100 でない", func(t *testing.T) {
		assert.Error(t, ValidateStaffFactorWeights(weights([2]float64{1, 30}, [2]float64{2, 30}), factors))
	})
}

func TestValidateAdminEvaluations(t *testing.T) {
	factors := []*domain.EvaluationFactor{
		{ID: 1, FactorType: domain.FactorTypeAdminEvaluation},
		{ID: 2, FactorType: domain.FactorTypeAdminEvaluation},
		{ID: 3, FactorType: domain.FactorTypeStaffPreference},
	}

	evaluations := func(pairs ...[2]float64) []*domain.AdminEvaluation {
		result := make([]*domain.AdminEvaluation, 0, len(pairs))
		for _, p := range pairs {
			result = append(result, &domain.AdminEvaluation{FactorID: int64(p[0]), Value: p[1]})
		}
		return result
	}

	t.Run("正常な評価", func(t *testing.T) {
		assert.NoError(t, ValidateAdminEvaluations(evaluations([2]float64{1, 0.8}, [2]float64{2, 0.0}), factors))
	})

	t.Run("空の評価", func(t *testing.T) {
		assert.Error(t, ValidateAdminEvaluations(nil, factors))
	})

	t.Run("評価値が範囲外", func(t *testing.T) {
		assert.Error(t, ValidateAdminEvaluations(evaluations([2]float64{1, -0.1}), factors))
		assert.Error(t, ValidateAdminEvaluations(evaluations([2]float64{1, 1.1}), factors))
	})

	t.Run("重視要素は評価できない", func(t *testing.T) {
		assert.Error(t, ValidateAdminEvaluations(evaluations([2]float64{3, 0.5}), factors))
	})

	t.Run("要素の重複", func(t *testing.T) {
		assert.Error(t, ValidateAdminEvaluations(evaluations([2]float64{1, 0.5}, [2]float64{1, 0.6}), factors))
	})
}
