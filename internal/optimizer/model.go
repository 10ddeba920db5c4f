package optimizer

import "fmt"

// Individual: 1 つの配置案
// genes[i] は residents[i] に割り当てる病院のインデックス
type Individual struct {
	genes   []int
	fitness float64
	valid   bool // fitness が genes と一致しているかどうか
}

func (ind *Individual) clone() *Individual {
	genes := make([]int, len(ind.genes))
	copy(genes, ind.genes)
	return &Individual{
		genes:   genes,
		fitness: ind.fitness,
		valid:   ind.valid,
	}
}

func (ind *Individual) invalidate() {
	ind.valid = false
}

// 遺伝的アルゴリズムのパラメータ
type Parameters struct {
	PopulationSize int     // 個体数
	Generations    int     // 最大世代数
	CrossoverProb  float64 // 交叉確率
	MutationProb   float64 // 突然変異確率
	MismatchBonus  float64 // アンマッチボーナス係数（設定としては受け付けるが現行の適合度計算では未使用）
	Seed           int64   // 乱数シード（0 の場合は時刻から生成）
}

// Validate は設定画面・API で受け付ける範囲のチェック
// ドライバ自体は範囲を再検証しない（設定層の責務）
func (p *Parameters) Validate() error {
	if p.PopulationSize < 10 || p.PopulationSize > 500 {
		return fmt.Errorf("個体数は 10-500 の範囲で指定してください")
	}
	if p.Generations < 50 || p.Generations > 1000 {
		return fmt.Errorf("世代数は 50-1000 の範囲で指定してください")
	}
	if p.CrossoverProb < 0.0 || p.CrossoverProb > 1.0 {
		return fmt.Errorf("交叉確率は 0.0-1.0 の範囲で指定してください")
	}
	if p.MutationProb < 0.0 || p.MutationProb > 1.0 {
		return fmt.Errorf("突然変異確率は 0.0-1.0 の範囲で指定してください")
	}
	if p.MismatchBonus < 1.0 || p.MismatchBonus > 5.0 {
		return fmt.Errorf("アンマッチボーナス係数は 1.0-5.0 の範囲で指定してください")
	}
	return nil
}

// 1 世代ごとの適合度統計
type GenerationStats struct {
	Generation int     `json:"generation"`
	Avg        float64 `json:"avg"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// 最良個体から導出した 1 名分の配置
type ResidentAssignment struct {
	StaffID    int64   `json:"staffID"`
	HospitalID int64   `json:"hospitalID"`
	HopeRank   int32   `json:"hopeRank"` // 1-3、希望外の場合 0
	Fitness    float64 `json:"fitness"`  // その専攻医単独で再計算した適合度
}

// 最適化の結果
type Result struct {
	BestGenes   []int                `json:"-"`
	BestFitness float64              `json:"bestFitness"`
	Generations int                  `json:"generations"` // 実際に回した世代数
	Assignments []ResidentAssignment `json:"assignments"`
	Stats       []GenerationStats    `json:"stats"`
}
