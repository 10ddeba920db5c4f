package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 重み・評価が未登録の場合、専攻医 1 名あたりの基礎スコアは
// 0.5*0.3 (重視要素) + 0.5*0.3 (医局側評価) = 0.3
const baselineScore = 0.3

func TestEvaluateDefaults(t *testing.T) {
	c, err := NewContext(2025, testResidents(1), testHospitals(10), Dataset{
		Capacities: map[int64]int32{10: 1},
	})
	require.NoError(t, err)

	// 希望なし・重みなし・評価なし
	score := Evaluate([]int{0}, c)
	assert.InDelta(t, baselineScore, score, 1e-9)
}

func TestEvaluateHopeRank(t *testing.T) {
	c, err := NewContext(2025, testResidents(1), testHospitals(10, 20, 30, 40), Dataset{
		Choices: map[int64]map[int32]int64{
			1: {1: 10, 2: 20, 3: 30},
		},
		Capacities: map[int64]int32{10: 1, 20: 1, 30: 1, 40: 1},
	})
	require.NoError(t, err)

	first := Evaluate([]int{0}, c)
	second := Evaluate([]int{1}, c)
	third := Evaluate([]int{2}, c)
	outside := Evaluate([]int{3}, c)

	// 第1希望=1.0, 第2希望=0.67, 第3希望=0.34, 希望外=0 を 0.4 倍して基礎スコアに加算
	assert.InDelta(t, baselineScore+0.4*1.0, first, 1e-9)
	assert.InDelta(t, baselineScore+0.4*0.67, second, 1e-9)
	assert.InDelta(t, baselineScore+0.4*0.34, third, 1e-9)
	assert.InDelta(t, baselineScore, outside, 1e-9)

	assert.Greater(t, first, second)
	assert.Greater(t, second, third)
	assert.Greater(t, third, outside)
}

func TestEvaluateCapacityPenalty(t *testing.T) {
	c, err := NewContext(2025, testResidents(1, 2), testHospitals(10, 20), Dataset{
		Capacities: map[int64]int32{10: 1, 20: 1},
	})
	require.NoError(t, err)

	within := Evaluate([]int{0, 1}, c)
	exceeded := Evaluate([]int{0, 0}, c)

	// 定員内: (0.3 + 0.3) / 2 = 0.3
	assert.InDelta(t, baselineScore, within, 1e-9)
	// 1 名超過: (0.3 + 0.3 - 0.5) / 2 = 0.05
	assert.InDelta(t, 0.05, exceeded, 1e-9)
	assert.Less(t, exceeded, within)
}

func TestEvaluateNeverNegative(t *testing.T) {
	// 大幅な定員超過でもスコアは 0 で下げ止まる
	c, err := NewContext(2025, testResidents(1, 2, 3, 4, 5), testHospitals(10, 20), Dataset{
		Capacities: map[int64]int32{10: 1, 20: 1},
	})
	require.NoError(t, err)

	score := Evaluate([]int{0, 0, 0, 0, 0}, c)
	assert.Equal(t, 0.0, score)
}

func TestEvaluateSalaryFactor(t *testing.T) {
	hospitals := testHospitals(10, 20)
	hospitals[0].AnnualSalary = 12000000 // 1000 万円を超えるので 1.0 で頭打ち
	hospitals[1].AnnualSalary = 5000000  // 0.5

	c, err := NewContext(2025, testResidents(1), hospitals, Dataset{
		Weights: map[int64]map[int64]float64{
			1: {100: 100},
		},
		StaffFactors: []FactorInfo{{ID: 100, Name: "年収・給与"}},
		Capacities:   map[int64]int32{10: 1, 20: 1},
	})
	require.NoError(t, err)

	rich := Evaluate([]int{0}, c)
	modest := Evaluate([]int{1}, c)

	assert.InDelta(t, 1.0*0.3+0.5*0.3, rich, 1e-9)
	assert.InDelta(t, 0.5*0.3+0.5*0.3, modest, 1e-9)
}

func TestEvaluateCommuteFactor(t *testing.T) {
	newCtx := func(commutes map[CommuteKey]float64) *Context {
		c, err := NewContext(2025, testResidents(1), testHospitals(10), Dataset{
			Weights: map[int64]map[int64]float64{
				1: {100: 100},
			},
			StaffFactors: []FactorInfo{{ID: 100, Name: "通勤時間"}},
			Commutes:     commutes,
			Capacities:   map[int64]int32{10: 1},
		})
		require.NoError(t, err)
		return c
	}

	// キャッシュ未登録はデフォルト 60 分: 1 - 60/120 = 0.5
	missing := Evaluate([]int{0}, newCtx(nil))
	assert.InDelta(t, 0.5*0.3+0.5*0.3, missing, 1e-9)

	// 30 分: 1 - 30/120 = 0.75
	near := Evaluate([]int{0}, newCtx(map[CommuteKey]float64{{StaffID: 1, HospitalID: 10}: 30}))
	assert.InDelta(t, 0.75*0.3+0.5*0.3, near, 1e-9)

	// 240 分は下限 0 で止まる
	far := Evaluate([]int{0}, newCtx(map[CommuteKey]float64{{StaffID: 1, HospitalID: 10}: 240}))
	assert.InDelta(t, 0.0*0.3+0.5*0.3, far, 1e-9)

	// 0 分の記録は欠損値とみなして 0.5
	zero := Evaluate([]int{0}, newCtx(map[CommuteKey]float64{{StaffID: 1, HospitalID: 10}: 0}))
	assert.InDelta(t, 0.5*0.3+0.5*0.3, zero, 1e-9)
}

func TestEvaluateCaseloadFactor(t *testing.T) {
	hospitals := testHospitals(10)
	hospitals[0].ResidentCapacity = 5
	hospitals[0].SpecialistCapacity = 3
	hospitals[0].InstructorCapacity = 2 // 合計 10 → 10/20 = 0.5

	c, err := NewContext(2025, testResidents(1), hospitals, Dataset{
		Weights: map[int64]map[int64]float64{
			1: {100: 100},
		},
		StaffFactors: []FactorInfo{{ID: 100, Name: "症例数"}},
		Capacities:   map[int64]int32{10: 5},
	})
	require.NoError(t, err)

	score := Evaluate([]int{0}, c)
	assert.InDelta(t, 0.5*0.3+0.5*0.3, score, 1e-9)
}

func TestEvaluateUnknownFactorName(t *testing.T) {
	c, err := NewContext(2025, testResidents(1), testHospitals(10), Dataset{
		Weights: map[int64]map[int64]float64{
			1: {100: 100},
		},
		StaffFactors: []FactorInfo{{ID: 100, Name: "勤務環境"}},
		Capacities:   map[int64]int32{10: 1},
	})
	require.NoError(t, err)

	// 分類できない要素名は中立の 0.5
	score := Evaluate([]int{0}, c)
	assert.InDelta(t, 0.5*0.3+0.5*0.3, score, 1e-9)
}

func TestEvaluateAdminScore(t *testing.T) {
	c, err := NewContext(2025, testResidents(1), testHospitals(10), Dataset{
		AdminEvaluations: map[int64]map[int64]float64{
			1: {200: 0.8, 201: 0.4},
		},
		AdminFactors: []FactorInfo{{ID: 200, Name: "学術業績"}, {ID: 201, Name: "臨床能力"}},
		Capacities:   map[int64]int32{10: 1},
	})
	require.NoError(t, err)

	// 評価値の平均 0.6 を 0.3 倍して加算
	score := Evaluate([]int{0}, c)
	assert.InDelta(t, 0.5*0.3+0.6*0.3, score, 1e-9)
}

func TestEvaluateDeterministic(t *testing.T) {
	c, err := NewContext(2025, testResidents(1, 2, 3), testHospitals(10, 20), Dataset{
		Choices: map[int64]map[int32]int64{
			1: {1: 10},
			2: {1: 20, 2: 10},
		},
		Weights: map[int64]map[int64]float64{
			1: {100: 60, 101: 40},
		},
		AdminEvaluations: map[int64]map[int64]float64{
			2: {200: 0.7},
		},
		StaffFactors: []FactorInfo{{ID: 100, Name: "年収・給与"}, {ID: 101, Name: "通勤時間"}},
		AdminFactors: []FactorInfo{{ID: 200, Name: "学術業績"}},
		Capacities:   map[int64]int32{10: 2, 20: 1},
	})
	require.NoError(t, err)

	genes := []int{0, 1, 0}
	first := Evaluate(genes, c)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Evaluate(genes, c))
	}
}
