package seed

import (
	"log/slog"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
	"github.com/ikyoku-dev/resident-match/backend/internal/repository"
)

// 運用開始時に投入する評価要素のマスタ
// 専攻医重視要素の名前はフィットネス計算の分類に使われるので変更時は注意
var defaultFactors = []*domain.EvaluationFactor{
	{Name: "年収・給与", Description: "給与水準をどれだけ重視するか", FactorType: domain.FactorTypeStaffPreference, DisplayOrder: 1, IsActive: true},
	{Name: "通勤時間", Description: "自宅からの通勤時間をどれだけ重視するか", FactorType: domain.FactorTypeStaffPreference, DisplayOrder: 2, IsActive: true},
	{Name: "症例数", Description: "経験できる症例の多さをどれだけ重視するか", FactorType: domain.FactorTypeStaffPreference, DisplayOrder: 3, IsActive: true},
	{Name: "勤務環境", Description: "当直回数や休暇の取りやすさ", FactorType: domain.FactorTypeStaffPreference, DisplayOrder: 4, IsActive: true},
	{Name: "学術業績", Description: "学会発表・論文などの実績", FactorType: domain.FactorTypeAdminEvaluation, DisplayOrder: 1, IsActive: true},
	{Name: "臨床能力", Description: "日常診療での技能評価", FactorType: domain.FactorTypeAdminEvaluation, DisplayOrder: 2, IsActive: true},
	{Name: "協調性", Description: "チーム医療への適応", FactorType: domain.FactorTypeAdminEvaluation, DisplayOrder: 3, IsActive: true},
}

// SeedEvaluationFactors は評価要素のマスタを投入する
// 既に同種の要素が登録されていれば何もしない
func SeedEvaluationFactors(r *repository.Repository) {
	existing, err := r.GetAllEvaluationFactors()
	if err != nil {
		slog.Error("評価要素の取得に失敗しました", "error", err)
		return
	}
	if len(existing) > 0 {
		slog.Info("評価要素は既に登録されています", "count", len(existing))
		return
	}

	cnt := 0
	for _, factor := range defaultFactors {
		if err := r.CreateEvaluationFactor(factor); err != nil {
			slog.Error("評価要素の登録に失敗しました", "name", factor.Name, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("評価要素を登録しました", "count", cnt)
}
