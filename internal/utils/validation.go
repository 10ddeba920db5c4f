package utils

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

const MaxChoiceRank = 3

// FiscalYearStartDate は年度の開始日（4 月 1 日）を返す
func FiscalYearStartDate(fiscalYear int32) time.Time {
	return time.Date(int(fiscalYear), time.April, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearEndDate は年度の終了日（翌年 3 月 31 日）を返す
func FiscalYearEndDate(fiscalYear int32) time.Time {
	return time.Date(int(fiscalYear)+1, time.March, 31, 0, 0, 0, 0, time.UTC)
}

// ValidateHospitalChoices は病院希望の組み合わせを検証する
// 順位は 1〜3、順位と病院はそれぞれ重複してはならない
func ValidateHospitalChoices(choices []*domain.HospitalChoice, hospitals []*domain.Hospital) error {
	if len(choices) == 0 {
		return errors.New("病院希望が 1 件も指定されていません")
	}
	if len(choices) > MaxChoiceRank {
		return fmt.Errorf("病院希望は最大 %d 件までです", MaxChoiceRank)
	}

	hospitalIDs := make(map[int64]bool)
	for _, hospital := range hospitals {
		hospitalIDs[hospital.ID] = true
	}

	seenRanks := make(map[int32]bool)
	seenHospitals := make(map[int64]bool)
	for _, choice := range choices {
		if choice.Rank < 1 || choice.Rank > MaxChoiceRank {
			return fmt.Errorf("希望順位は 1〜%d で指定してください: %d", MaxChoiceRank, choice.Rank)
		}
		if seenRanks[choice.Rank] {
			return fmt.Errorf("希望順位 %d が重複しています", choice.Rank)
		}
		seenRanks[choice.Rank] = true

		if !hospitalIDs[choice.HospitalID] {
			return fmt.Errorf("存在しない病院が指定されています: %d", choice.HospitalID)
		}
		if seenHospitals[choice.HospitalID] {
			return fmt.Errorf("同じ病院を複数の順位に指定することはできません: %d", choice.HospitalID)
		}
		seenHospitals[choice.HospitalID] = true
	}

	return nil
}

// ValidateStaffFactorWeights は重視要素の重みを検証する
// 各重みは 0〜100 で、合計はちょうど 100 でなければならない
func ValidateStaffFactorWeights(weights []*domain.StaffFactorWeight, factors []*domain.EvaluationFactor) error {
	if len(weights) == 0 {
		return errors.New("重視要素の重みが 1 件も指定されていません")
	}

	factorIDs := make(map[int64]bool)
	for _, factor := range factors {
		if factor.FactorType == domain.FactorTypeStaffPreference {
			factorIDs[factor.ID] = true
		}
	}

	total := 0.0
	seenFactors := make(map[int64]bool)
	for _, weight := range weights {
		if weight.Weight < 0 || weight.Weight > 100 {
			return fmt.Errorf("重みは 0〜100 で指定してください: %.1f", weight.Weight)
		}
		if !factorIDs[weight.FactorID] {
			return fmt.Errorf("存在しない重視要素が指定されています: %d", weight.FactorID)
		}
		if seenFactors[weight.FactorID] {
			return fmt.Errorf("重視要素 %d が重複しています", weight.FactorID)
		}
		seenFactors[weight.FactorID] = true
		total += weight.Weight
	}

	if math.Abs(total-100) > 1e-9 {
		return fmt.Errorf("重みの合計は 100 にしてください（現在 %.1f）", total)
	}

	return nil
}

// ValidateAdminEvaluations は医局側評価を検証する
// 評価値は 0.0〜1.0 で、同じ要素を重複して評価してはならない
func ValidateAdminEvaluations(evaluations []*domain.AdminEvaluation, factors []*domain.EvaluationFactor) error {
	if len(evaluations) == 0 {
		return errors.New("評価が 1 件も指定されていません")
	}

	factorIDs := make(map[int64]bool)
	for _, factor := range factors {
		if factor.FactorType == domain.FactorTypeAdminEvaluation {
			factorIDs[factor.ID] = true
		}
	}

	seenFactors := make(map[int64]bool)
	for _, evaluation := range evaluations {
		if evaluation.Value < 0 || evaluation.Value > 1 {
			return fmt.Errorf("評価値は 0.0〜1.0 で指定してください: %.2f", evaluation.Value)
		}
		if !factorIDs[evaluation.FactorID] {
			return fmt.Errorf("存在しない評価要素が指定されています: %d", evaluation.FactorID)
		}
		if seenFactors[evaluation.FactorID] {
			return fmt.Errorf("評価要素 %d が重複しています", evaluation.FactorID)
		}
		seenFactors[evaluation.FactorID] = true
	}

	return nil
}
