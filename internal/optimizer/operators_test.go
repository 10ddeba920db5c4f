package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossoverTwoPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("長さと遺伝子の出所が保たれる", func(t *testing.T) {
		ind1 := []int{0, 0, 0, 0, 0, 0}
		ind2 := []int{1, 1, 1, 1, 1, 1}

		child1, child2 := CrossoverTwoPoint(rng, ind1, ind2)

		assert.Len(t, child1, len(ind1))
		assert.Len(t, child2, len(ind2))

		// 各位置で子は必ずどちらかの親の遺伝子を持ち、2 人の子は相補的
		for i := range child1 {
			assert.Contains(t, []int{0, 1}, child1[i])
			assert.Equal(t, 1, child1[i]+child2[i])
		}

		// 親は変更されない
		assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, ind1)
		assert.Equal(t, []int{1, 1, 1, 1, 1, 1}, ind2)
	})

	t.Run("長さ 1 の場合はコピーを返す", func(t *testing.T) {
		child1, child2 := CrossoverTwoPoint(rng, []int{3}, []int{5})
		assert.Equal(t, []int{3}, child1)
		assert.Equal(t, []int{5}, child2)
	})
}

func TestCrossoverUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("確率 0 では交換しない", func(t *testing.T) {
		child1, child2 := CrossoverUniform(rng, []int{0, 0, 0}, []int{1, 1, 1}, 0.0)
		assert.Equal(t, []int{0, 0, 0}, child1)
		assert.Equal(t, []int{1, 1, 1}, child2)
	})

	t.Run("確率 1 では全て交換する", func(t *testing.T) {
		child1, child2 := CrossoverUniform(rng, []int{0, 0, 0}, []int{1, 1, 1}, 1.0)
		assert.Equal(t, []int{1, 1, 1}, child1)
		assert.Equal(t, []int{0, 0, 0}, child2)
	})
}

func TestMutateRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	genes := []int{0, 1, 2, 3, 4}
	MutateRandom(rng, genes, 5, 1.0)

	for _, g := range genes {
		assert.GreaterOrEqual(t, g, 0)
		assert.Less(t, g, 5)
	}
}

func TestMutateSwap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("交換後も多重集合は変わらない", func(t *testing.T) {
		genes := []int{0, 1, 2, 3}
		MutateSwap(rng, genes, 1.0)

		counts := map[int]int{}
		for _, g := range genes {
			counts[g]++
		}
		assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1}, counts)
	})

	t.Run("長さ 1 では何もしない", func(t *testing.T) {
		genes := []int{7}
		MutateSwap(rng, genes, 1.0)
		assert.Equal(t, []int{7}, genes)
	})
}

func TestMutateCapacityAware(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	c, err := NewContext(2025, testResidents(1, 2), testHospitals(10, 20), Dataset{
		Capacities: map[int64]int32{10: 1, 20: 1},
	})
	require.NoError(t, err)

	t.Run("超過分を空きのある病院に移す", func(t *testing.T) {
		genes := []int{0, 0}
		MutateCapacityAware(rng, genes, c, 1.0)

		counts := map[int]int{}
		for _, g := range genes {
			counts[g]++
		}
		assert.Equal(t, map[int]int{0: 1, 1: 1}, counts)
	})

	t.Run("超過がなければ何もしない", func(t *testing.T) {
		genes := []int{0, 1}
		MutateCapacityAware(rng, genes, c, 1.0)
		assert.Equal(t, []int{0, 1}, genes)
	})
}

func TestMutateHopeAware(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	c, err := NewContext(2025, testResidents(1, 2), testHospitals(10, 20, 30), Dataset{
		Choices: map[int64]map[int32]int64{
			1: {1: 10, 2: 20},
		},
		Capacities: map[int64]int32{10: 1, 20: 1, 30: 1},
	})
	require.NoError(t, err)

	t.Run("希望外の専攻医を希望病院に移す", func(t *testing.T) {
		genes := []int{2, 2} // 専攻医 1 は希望外、専攻医 2 は希望なし
		MutateHopeAware(rng, genes, c, 1.0)

		assert.Contains(t, []int{0, 1}, genes[0])
		// 希望を出していない専攻医は動かさない
		assert.Equal(t, 2, genes[1])
	})

	t.Run("全員が希望内なら何もしない", func(t *testing.T) {
		genes := []int{0, 2}
		MutateHopeAware(rng, genes, c, 1.0)
		assert.Equal(t, []int{0, 2}, genes)
	})
}

func TestSelectTournament(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	pop := []*Individual{
		{genes: []int{0}, fitness: 0.1, valid: true},
		{genes: []int{1}, fitness: 0.9, valid: true},
		{genes: []int{2}, fitness: 0.5, valid: true},
	}

	selected := SelectTournament(rng, pop, 10, 3)
	require.Len(t, selected, 10)

	for _, ind := range selected {
		assert.Contains(t, pop, ind)
	}

	// トーナメントは最大適合度の個体を優遇するはず
	best := 0
	for _, ind := range selected {
		if ind.fitness == 0.9 {
			best++
		}
	}
	assert.Greater(t, best, 0)
}
