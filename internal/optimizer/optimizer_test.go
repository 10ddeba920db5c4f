package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func testParameters() Parameters {
	return Parameters{
		PopulationSize: 20,
		Generations:    30,
		CrossoverProb:  0.7,
		MutationProb:   0.2,
		MismatchBonus:  1.5,
		Seed:           42,
	}
}

func TestNew(t *testing.T) {
	t.Run("正常なパラメータ", func(t *testing.T) {
		opt, err := New(testParameters())
		require.NoError(t, err)
		assert.NotNil(t, opt)
	})

	t.Run("個体数 0 は拒否", func(t *testing.T) {
		params := testParameters()
		params.PopulationSize = 0
		_, err := New(params)
		assert.Error(t, err)
	})

	t.Run("世代数が負の場合は拒否", func(t *testing.T) {
		params := testParameters()
		params.Generations = -1
		_, err := New(params)
		assert.Error(t, err)
	})
}

func TestParametersValidate(t *testing.T) {
	valid := Parameters{
		PopulationSize: 100,
		Generations:    200,
		CrossoverProb:  0.7,
		MutationProb:   0.2,
		MismatchBonus:  1.5,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Parameters)
	}{
		{"個体数が小さすぎる", func(p *Parameters) { p.PopulationSize = 9 }},
		{"個体数が大きすぎる", func(p *Parameters) { p.PopulationSize = 501 }},
		{"世代数が小さすぎる", func(p *Parameters) { p.Generations = 49 }},
		{"世代数が大きすぎる", func(p *Parameters) { p.Generations = 1001 }},
		{"交叉確率が負", func(p *Parameters) { p.CrossoverProb = -0.1 }},
		{"交叉確率が 1 を超える", func(p *Parameters) { p.CrossoverProb = 1.1 }},
		{"突然変異確率が負", func(p *Parameters) { p.MutationProb = -0.1 }},
		{"突然変異確率が 1 を超える", func(p *Parameters) { p.MutationProb = 1.1 }},
		{"アンマッチボーナスが小さすぎる", func(p *Parameters) { p.MismatchBonus = 0.9 }},
		{"アンマッチボーナスが大きすぎる", func(p *Parameters) { p.MismatchBonus = 5.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.modify(&params)
			assert.Error(t, params.Validate())
		})
	}

	// 境界値は許容される
	boundary := Parameters{
		PopulationSize: 10,
		Generations:    1000,
		CrossoverProb:  0.0,
		MutationProb:   1.0,
		MismatchBonus:  5.0,
	}
	assert.NoError(t, boundary.Validate())
}

func TestOptimizeWithoutData(t *testing.T) {
	opt, err := New(testParameters())
	require.NoError(t, err)

	_, err = opt.Optimize(context.Background(), nil)
	assert.Error(t, err)
}

func TestLoadDataEmptyInputs(t *testing.T) {
	opt, err := New(testParameters())
	require.NoError(t, err)

	assert.ErrorIs(t, opt.LoadData(2025, nil, testHospitals(10), Dataset{}), ErrNoResidents)
	assert.ErrorIs(t, opt.LoadData(2025, testResidents(1), nil, Dataset{}), ErrNoHospitals)
}

// 3 名の専攻医と定員 1+2 の病院 2 つで、第 1 希望を出した専攻医が
// その病院に配置されることを確認する
func TestOptimizeRespectsFirstChoice(t *testing.T) {
	residents := testResidents(1, 2, 3)
	hospitals := []*domain.Hospital{
		{ID: 10, ResidentCapacity: 1},
		{ID: 20, ResidentCapacity: 2},
	}
	data := Dataset{
		Choices: map[int64]map[int32]int64{
			1: {1: 10},
		},
		Capacities: map[int64]int32{10: 1, 20: 2},
	}

	opt, err := New(testParameters())
	require.NoError(t, err)
	require.NoError(t, opt.LoadData(2025, residents, hospitals, data))

	result, err := opt.Optimize(context.Background(), nil)
	require.NoError(t, err)

	// 全専攻医がちょうど 1 回ずつ現れる
	require.Len(t, result.Assignments, 3)
	seen := map[int64]bool{}
	assignedCount := map[int64]int32{}
	for _, a := range result.Assignments {
		assert.False(t, seen[a.StaffID])
		seen[a.StaffID] = true
		assert.Contains(t, []int64{10, 20}, a.HospitalID)
		assignedCount[a.HospitalID]++
	}

	// 定員超過なし
	assert.LessOrEqual(t, assignedCount[10], int32(1))
	assert.LessOrEqual(t, assignedCount[20], int32(2))

	// 専攻医 1 は第 1 希望の病院 10 に配置される
	for _, a := range result.Assignments {
		if a.StaffID == 1 {
			assert.Equal(t, int64(10), a.HospitalID)
			assert.Equal(t, int32(1), a.HopeRank)
		} else {
			assert.Equal(t, int32(0), a.HopeRank)
		}
	}

	assert.Greater(t, result.BestFitness, 0.0)
	assert.GreaterOrEqual(t, result.Generations, 1)
	assert.LessOrEqual(t, result.Generations, testParameters().Generations)
	assert.NotEmpty(t, result.Stats)
	assert.Equal(t, 0, result.Stats[0].Generation)
}

func TestOptimizeDeterministicWithSeed(t *testing.T) {
	run := func() *Result {
		opt, err := New(testParameters())
		require.NoError(t, err)
		require.NoError(t, opt.LoadData(2025, testResidents(1, 2, 3, 4), testHospitals(10, 20, 30), Dataset{
			Choices: map[int64]map[int32]int64{
				1: {1: 10, 2: 20},
				3: {1: 30},
			},
			Capacities: map[int64]int32{10: 2, 20: 1, 30: 2},
		}))

		result, err := opt.Optimize(context.Background(), nil)
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	assert.Equal(t, first.BestFitness, second.BestFitness)
	assert.Equal(t, first.BestGenes, second.BestGenes)
	assert.Equal(t, first.Generations, second.Generations)
	assert.Equal(t, first.Assignments, second.Assignments)
}

func TestOptimizeCancellation(t *testing.T) {
	opt, err := New(testParameters())
	require.NoError(t, err)
	require.NoError(t, opt.LoadData(2025, testResidents(1, 2), testHospitals(10, 20), Dataset{
		Capacities: map[int64]int32{10: 1, 20: 1},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = opt.Optimize(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimizeProgressCallback(t *testing.T) {
	opt, err := New(testParameters())
	require.NoError(t, err)
	require.NoError(t, opt.LoadData(2025, testResidents(1, 2), testHospitals(10, 20), Dataset{
		Capacities: map[int64]int32{10: 1, 20: 1},
	}))

	generations := []int{}
	_, err = opt.Optimize(context.Background(), func(generation int, bestFitness float64) {
		generations = append(generations, generation)
		assert.GreaterOrEqual(t, bestFitness, 0.0)
	})
	require.NoError(t, err)

	// 第 0 世代と 10 世代ごとに呼ばれる
	require.NotEmpty(t, generations)
	assert.Equal(t, 0, generations[0])
	for _, gen := range generations {
		assert.Zero(t, gen%10)
	}
}

func TestOptimizeProgressPanicIsRecovered(t *testing.T) {
	opt, err := New(testParameters())
	require.NoError(t, err)
	require.NoError(t, opt.LoadData(2025, testResidents(1, 2), testHospitals(10, 20), Dataset{
		Capacities: map[int64]int32{10: 1, 20: 1},
	}))

	result, err := opt.Optimize(context.Background(), func(generation int, bestFitness float64) {
		panic("通知側の都合で落ちる")
	})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
