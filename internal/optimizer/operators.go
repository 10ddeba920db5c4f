package optimizer

import (
	"math/rand"
	"slices"
)

// 遺伝操作は全て明示的に渡された *rand.Rand だけを使う
// グローバルな乱数源を共有しないので、シードを変えた複数の最適化を並行して走らせられる

// CrossoverTwoPoint は二点交叉で 2 つの子個体を返す
// 切断点は [1, len-1] から一様に選び、順序が逆なら入れ替える
// 長さが 2 未満の場合は親のコピーをそのまま返す
func CrossoverTwoPoint(rng *rand.Rand, ind1, ind2 []int) ([]int, []int) {
	size := len(ind1)
	if size < 2 {
		return slices.Clone(ind1), slices.Clone(ind2)
	}

	cxpoint1 := rng.Intn(size-1) + 1
	cxpoint2 := rng.Intn(size-1) + 1
	if cxpoint2 < cxpoint1 {
		cxpoint1, cxpoint2 = cxpoint2, cxpoint1
	}

	child1 := make([]int, 0, size)
	child1 = append(child1, ind1[:cxpoint1]...)
	child1 = append(child1, ind2[cxpoint1:cxpoint2]...)
	child1 = append(child1, ind1[cxpoint2:]...)

	child2 := make([]int, 0, size)
	child2 = append(child2, ind2[:cxpoint1]...)
	child2 = append(child2, ind1[cxpoint1:cxpoint2]...)
	child2 = append(child2, ind2[cxpoint2:]...)

	return child1, child2
}

// CrossoverUniform は一様交叉（各遺伝子を確率 indpb で交換）
// 既定の世代ループでは使っていないが、戦略の差し替え用に残してある
func CrossoverUniform(rng *rand.Rand, ind1, ind2 []int, indpb float64) ([]int, []int) {
	child1 := slices.Clone(ind1)
	child2 := slices.Clone(ind2)

	for i := range child1 {
		if rng.Float64() < indpb {
			child1[i], child2[i] = child2[i], child1[i]
		}
	}

	return child1, child2
}

// MutateRandom は各遺伝子を確率 indpb でランダムな病院に変更する（破壊的）
func MutateRandom(rng *rand.Rand, genes []int, numHospitals int, indpb float64) {
	for i := range genes {
		if rng.Float64() < indpb {
			genes[i] = rng.Intn(numHospitals)
		}
	}
}

// MutateSwap は確率 indpb でランダムな 2 遺伝子を交換する（破壊的）
// 既定の世代ループでは使っていない
func MutateSwap(rng *rand.Rand, genes []int, indpb float64) {
	size := len(genes)
	if size < 2 {
		return
	}

	if rng.Float64() < indpb {
		i := rng.Intn(size)
		j := rng.Intn(size - 1)
		if j >= i {
			j++
		}
		genes[i], genes[j] = genes[j], genes[i]
	}
}

// MutateCapacityAware は定員を考慮した突然変異（破壊的）
//
// 定員超過している病院への割り当てを 1 件だけ、空きのある病院にランダムに移す
// 超過病院か空き病院が存在しない場合は何もしない
func MutateCapacityAware(rng *rand.Rand, genes []int, c *Context, indpb float64) {
	if rng.Float64() > indpb {
		return
	}

	// 病院インデックスごとの割り当て数
	count := make(map[int]int32)
	for _, hospitalIdx := range genes {
		count[hospitalIdx]++
	}

	var overcapacity, undercapacity []int
	for idx, hospital := range c.hospitals {
		capacity := c.data.Capacities[hospital.ID]
		switch {
		case count[idx] > capacity:
			overcapacity = append(overcapacity, idx)
		case count[idx] < capacity:
			undercapacity = append(undercapacity, idx)
		}
	}

	if len(overcapacity) == 0 || len(undercapacity) == 0 {
		return
	}

	for i, hospitalIdx := range genes {
		if !slices.Contains(overcapacity, hospitalIdx) {
			continue
		}

		newIdx := undercapacity[rng.Intn(len(undercapacity))]
		genes[i] = newIdx

		count[hospitalIdx]--
		count[newIdx]++

		if count[hospitalIdx] <= c.data.Capacities[c.hospitals[hospitalIdx].ID] {
			if j := slices.Index(overcapacity, hospitalIdx); j >= 0 {
				overcapacity = slices.Delete(overcapacity, j, j+1)
			}
		}
		if count[newIdx] >= c.data.Capacities[c.hospitals[newIdx].ID] {
			if j := slices.Index(undercapacity, newIdx); j >= 0 {
				undercapacity = slices.Delete(undercapacity, j, j+1)
			}
		}

		// 1 回の変異で動かすのは 1 名だけ
		break
	}
}

// MutateHopeAware は希望を考慮した突然変異（破壊的）
//
// 希望外の病院に割り当てられている最初の専攻医を見つけて、
// 本人の希望病院のいずれかにランダムに移す（1 回の変異で 1 名だけ）
func MutateHopeAware(rng *rand.Rand, genes []int, c *Context, indpb float64) {
	if rng.Float64() > indpb {
		return
	}

	for i, resident := range c.residents {
		currentHospitalID := c.hospitals[genes[i]].ID

		choices := c.data.Choices[resident.ID]
		if len(choices) == 0 {
			continue
		}

		if c.choiceRank(resident.ID, currentHospitalID) > 0 {
			// すでに希望のどれかに割り当てられている
			continue
		}

		// 順位順に並べて、シード固定時の再現性を保つ
		var hopeIdxs []int
		for rank := int32(1); rank <= 3; rank++ {
			hospitalID, ok := choices[rank]
			if !ok {
				continue
			}
			if idx, ok := c.hospitalIDToIdx[hospitalID]; ok {
				hopeIdxs = append(hopeIdxs, idx)
			}
		}

		if len(hopeIdxs) > 0 {
			genes[i] = hopeIdxs[rng.Intn(len(hopeIdxs))]
			break
		}
	}
}

// SelectTournament はトーナメント選択で k 個体を選ぶ
// 各トーナメントでは復元抽出で tournsize 個体を取り、キャッシュ済み適合度が最大のものを残す
func SelectTournament(rng *rand.Rand, pop []*Individual, k int, tournsize int) []*Individual {
	selected := make([]*Individual, 0, k)

	for i := 0; i < k; i++ {
		winner := pop[rng.Intn(len(pop))]
		for j := 1; j < tournsize; j++ {
			aspirant := pop[rng.Intn(len(pop))]
			if aspirant.fitness > winner.fitness {
				winner = aspirant
			}
		}
		selected = append(selected, winner)
	}

	return selected
}
