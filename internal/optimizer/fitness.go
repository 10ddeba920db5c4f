package optimizer

import (
	"strings"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// 各項の重み
const (
	hopeWeight       = 0.4
	preferenceWeight = 0.3
	adminWeight      = 0.3

	// 定員超過 1 名あたりのペナルティ
	capacityPenaltyPerExcess = 0.5

	// 通勤時間キャッシュ未登録時のデフォルト（分）
	defaultCommuteMinutes = 60.0
)

/**
 * Evaluate は個体の適合度を計算する
 *
 * 個体は [専攻医0の病院idx, 専攻医1の病院idx, ...] の形式
 *
 * 1. 希望順位スコア（第1希望=1.0, 第2希望=0.67, 第3希望=0.34, 希望外=0）
 * 2. 専攻医の重視要素スコア（正規化した重みで加重平均）
 * 3. 医局側評価スコア（評価値の平均）
 * 4. 定員制約ペナルティ（超過人数 × 0.5、正規化せずに減算）
 *
 * 最終スコアは max(0, 合計 / 専攻医数)
 * 乱数は使わず、加算順も固定なので同じ入力には常に同じ値を返す
 */
func Evaluate(genes []int, c *Context) float64 {
	numResidents := len(c.residents)
	if numResidents == 0 {
		return 0.0
	}

	// 病院インデックスごとの割り当て数
	assignmentCount := make([]int32, len(c.hospitals))
	for _, hospitalIdx := range genes {
		assignmentCount[hospitalIdx]++
	}

	totalScore := 0.0
	for i, resident := range c.residents {
		hospital := c.hospitals[genes[i]]

		totalScore += hopeScore(resident.ID, hospital.ID, c) * hopeWeight
		totalScore += preferenceScore(resident.ID, hospital, c) * preferenceWeight
		totalScore += adminScore(resident.ID, c) * adminWeight
	}

	// 定員制約ペナルティ
	capacityPenalty := 0.0
	for idx, hospital := range c.hospitals {
		capacity := c.data.Capacities[hospital.ID]
		if count := assignmentCount[idx]; count > capacity {
			capacityPenalty += float64(count-capacity) * capacityPenaltyPerExcess
		}
	}
	totalScore -= capacityPenalty

	normalized := totalScore / float64(numResidents)
	return max(0.0, normalized)
}

// hopeScore は希望順位スコア（0.0-1.0）
func hopeScore(staffID int64, hospitalID int64, c *Context) float64 {
	if rank := c.choiceRank(staffID, hospitalID); rank > 0 {
		return 1.0 - float64(rank-1)*0.33
	}
	// 希望外
	return 0.0
}

// preferenceScore は専攻医の重視要素スコア（0.0-1.0）
//
// 要素の種類は要素名の部分一致で判定する:
//   - 年収系: 病院の年収を 1000 万円を基準に正規化
//   - 通勤系: 通勤時間を 120 分を基準に逆正規化（短いほど高スコア）
//   - 症例・外勤系: 病院の総受入人数を代理指標として使用
//
// 重みが未登録（または合計 0）の専攻医は一律 0.5
func preferenceScore(staffID int64, hospital *domain.Hospital, c *Context) float64 {
	weights := c.data.Weights[staffID]
	if len(weights) == 0 {
		return 0.5
	}

	// 要素カタログの並び順で加算して計算を決定的にする
	totalWeight := 0.0
	for _, factor := range c.data.StaffFactors {
		totalWeight += weights[factor.ID]
	}
	if totalWeight == 0 {
		return 0.5
	}

	totalWeightedScore := 0.0
	for _, factor := range c.data.StaffFactors {
		weight := weights[factor.ID]
		if weight == 0 {
			continue
		}

		factorName := strings.ToLower(factor.Name)
		factorScore := 0.5

		switch {
		case strings.Contains(factorName, "年収") || strings.Contains(factorName, "給与") || strings.Contains(factorName, "salary"):
			if salary := hospital.AnnualSalary; salary > 0 {
				factorScore = min(1.0, salary/10000000)
			}
		case strings.Contains(factorName, "通勤") || strings.Contains(factorName, "距離") || strings.Contains(factorName, "commute"):
			minutes, ok := c.data.Commutes[CommuteKey{StaffID: staffID, HospitalID: hospital.ID}]
			if !ok {
				minutes = defaultCommuteMinutes
			}
			if minutes > 0 {
				factorScore = max(0.0, 1.0-minutes/120)
			}
		case strings.Contains(factorName, "症例") || strings.Contains(factorName, "外勤"):
			if capacity := hospital.TotalCapacity(); capacity > 0 {
				factorScore = min(1.0, float64(capacity)/20)
			}
		}

		totalWeightedScore += factorScore * (weight / totalWeight)
	}

	return totalWeightedScore
}

// adminScore は医局側評価スコア（評価値の平均、未登録の場合 0.5）
func adminScore(staffID int64, c *Context) float64 {
	evaluations := c.data.AdminEvaluations[staffID]
	if len(evaluations) == 0 {
		return 0.5
	}

	sum := 0.0
	count := 0
	for _, factor := range c.data.AdminFactors {
		if v, ok := evaluations[factor.ID]; ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0.5
	}
	return sum / float64(count)
}
