package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// 複合突然変異の各段階の遺伝子ごと確率
const (
	mutateRandomIndpb        = 0.05
	mutateCapacityAwareIndpb = 0.3
	mutateHopeAwareIndpb     = 0.2

	tournamentSize = 3

	// 収束判定: この世代を超えてから |max - avg| < convergenceEpsilon で打ち切る
	convergenceMinGeneration = 50
	convergenceEpsilon       = 0.001

	// 進捗コールバックの呼び出し間隔（世代）
	progressInterval = 10
)

type runState int

const (
	stateUninitialized runState = iota
	stateDataLoaded
	stateEvolving
	stateCompleted
)

// Optimizer: 遺伝的アルゴリズムによる専攻医配置の最適化ドライバ
//
// 1 回の実行は単一ゴルーチンで同期的に完走する
// 集団・スナップショット・乱数源は全てインスタンス専有なので、
// 別々のインスタンスなら並行に走らせても干渉しない
type Optimizer struct {
	params Parameters
	rng    *rand.Rand
	fctx   *Context
	state  runState
}

func New(params Parameters) (*Optimizer, error) {
	// 値域の検証は設定層（Parameters.Validate）の責務
	// ここでは動作不能な値だけ弾く
	if params.PopulationSize <= 0 {
		return nil, fmt.Errorf("個体数が不正です: %d", params.PopulationSize)
	}
	if params.Generations <= 0 {
		return nil, fmt.Errorf("世代数が不正です: %d", params.Generations)
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Optimizer{
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
		state:  stateUninitialized,
	}, nil
}

// LoadData はスナップショットを構築して最適化可能な状態にする
// 専攻医または病院が空の場合はエラーを返し、Evolving には進まない
func (o *Optimizer) LoadData(fiscalYear int32, residents []*domain.Staff, hospitals []*domain.Hospital, data Dataset) error {
	fctx, err := NewContext(fiscalYear, residents, hospitals, data)
	if err != nil {
		return err
	}

	o.fctx = fctx
	o.state = stateDataLoaded

	slog.Info("最適化データを読み込みました", "fiscalYear", fiscalYear, "residents", len(residents), "hospitals", len(hospitals))
	return nil
}

// Optimize は世代ループを実行して最良の配置案を返す
//
// progress は第 0 世代と以後 10 世代ごとに (世代, これまでの最良適合度) で呼ばれる
// progress 内の panic は回収して実行を続ける
// ctx のキャンセルは世代の切れ目ごとに 1 回確認する
func (o *Optimizer) Optimize(ctx context.Context, progress func(generation int, bestFitness float64)) (*Result, error) {
	if o.state < stateDataLoaded {
		return nil, fmt.Errorf("データが読み込まれていません。先に LoadData を呼んでください")
	}

	o.state = stateEvolving

	numResidents := o.fctx.NumResidents()
	numHospitals := o.fctx.NumHospitals()

	slog.Info("最適化を開始します",
		"populationSize", o.params.PopulationSize,
		"generations", o.params.Generations,
		"crossoverProb", o.params.CrossoverProb,
		"mutationProb", o.params.MutationProb,
	)

	// 初期集団: 各専攻医に一様ランダムな病院を割り当てる
	pop := make([]*Individual, o.params.PopulationSize)
	for i := range pop {
		genes := make([]int, numResidents)
		for j := range genes {
			genes[j] = o.rng.Intn(numHospitals)
		}
		pop[i] = &Individual{genes: genes}
	}

	o.evaluateInvalid(pop)

	// 殿堂入り枠は 1 つだけ
	// 選択で生き残るかどうかに関係なく、毎世代無条件に更新する
	best := &Individual{fitness: -math.MaxFloat64}
	o.updateBest(&best, pop)

	stats := make([]GenerationStats, 0, o.params.Generations+1)
	stats = append(stats, o.compileStats(0, pop))

	o.callProgress(progress, 0, best.fitness)

	gen := 0
	for gen = 1; gen <= o.params.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("最適化が中断されました: %w", err)
		}

		// 選択（同サイズの次世代を復元抽出で）
		selected := SelectTournament(o.rng, pop, len(pop), tournamentSize)
		offspring := make([]*Individual, len(selected))
		for i, ind := range selected {
			offspring[i] = ind.clone()
		}

		// 交叉（隣接ペアごと）
		for i := 0; i+1 < len(offspring); i += 2 {
			if o.rng.Float64() < o.params.CrossoverProb {
				child1, child2 := CrossoverTwoPoint(o.rng, offspring[i].genes, offspring[i+1].genes)
				offspring[i].genes = child1
				offspring[i+1].genes = child2
				offspring[i].invalidate()
				offspring[i+1].invalidate()
			}
		}

		// 複合突然変異（ランダム → 定員考慮 → 希望考慮の固定順）
		for _, mutant := range offspring {
			if o.rng.Float64() < o.params.MutationProb {
				MutateRandom(o.rng, mutant.genes, numHospitals, mutateRandomIndpb)
				MutateCapacityAware(o.rng, mutant.genes, o.fctx, mutateCapacityAwareIndpb)
				MutateHopeAware(o.rng, mutant.genes, o.fctx, mutateHopeAwareIndpb)
				mutant.invalidate()
			}
		}

		// 無効化された個体だけ再評価して世代交代
		o.evaluateInvalid(offspring)
		pop = offspring

		o.updateBest(&best, pop)
		record := o.compileStats(gen, pop)
		stats = append(stats, record)

		if gen%progressInterval == 0 {
			o.callProgress(progress, gen, best.fitness)
		}

		// 収束判定による早期終了
		if gen > convergenceMinGeneration && math.Abs(record.Max-record.Avg) < convergenceEpsilon {
			slog.Info("集団が収束したため打ち切ります", "generation", gen)
			break
		}
	}
	if gen > o.params.Generations {
		gen = o.params.Generations
	}

	o.state = stateCompleted

	result := &Result{
		BestGenes:   best.genes,
		BestFitness: best.fitness,
		Generations: gen,
		Assignments: o.buildAssignments(best.genes),
		Stats:       stats,
	}

	slog.Info("最適化が完了しました", "bestFitness", best.fitness, "generations", gen)
	return result, nil
}

func (o *Optimizer) evaluateInvalid(pop []*Individual) {
	for _, ind := range pop {
		if !ind.valid {
			ind.fitness = Evaluate(ind.genes, o.fctx)
			ind.valid = true
		}
	}
}

func (o *Optimizer) updateBest(best **Individual, pop []*Individual) {
	for _, ind := range pop {
		if ind.fitness > (*best).fitness {
			// 以降の世代で遺伝子が書き換えられないように深いコピーを保持する
			*best = ind.clone()
		}
	}
}

func (o *Optimizer) compileStats(gen int, pop []*Individual) GenerationStats {
	sum := 0.0
	minFit := math.MaxFloat64
	maxFit := -math.MaxFloat64

	for _, ind := range pop {
		sum += ind.fitness
		minFit = min(minFit, ind.fitness)
		maxFit = max(maxFit, ind.fitness)
	}

	return GenerationStats{
		Generation: gen,
		Avg:        sum / float64(len(pop)),
		Min:        minFit,
		Max:        maxFit,
	}
}

// callProgress はコールバックを panic から保護して呼び出す
// 進捗通知の失敗で最適化本体を落とさない
func (o *Optimizer) callProgress(progress func(int, float64), gen int, bestFitness float64) {
	if progress == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("進捗コールバックで panic が発生しました", "generation", gen, "panic", r)
		}
	}()

	progress(gen, bestFitness)
}

// buildAssignments は最良個体から 1 名ごとの配置情報を組み立てる
// 適合度は対象を 1 名に絞ったコンテキストで再計算する
func (o *Optimizer) buildAssignments(genes []int) []ResidentAssignment {
	assignments := make([]ResidentAssignment, 0, len(o.fctx.residents))

	for i, resident := range o.fctx.residents {
		hospital := o.fctx.hospitals[genes[i]]
		hopeRank := o.fctx.choiceRank(resident.ID, hospital.ID)

		narrowed := o.fctx.NarrowTo(i)
		fitness := Evaluate([]int{genes[i]}, narrowed)

		assignments = append(assignments, ResidentAssignment{
			StaffID:    resident.ID,
			HospitalID: hospital.ID,
			HopeRank:   hopeRank,
			Fitness:    fitness,
		})
	}

	return assignments
}
