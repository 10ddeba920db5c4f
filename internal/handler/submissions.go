package handler

import (
	"net/http"
	"strconv"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
	"github.com/ikyoku-dev/resident-match/backend/internal/utils"
)

// fiscalYearFromQuery は fiscalYear クエリを解釈する
// 省略時は設定の対象年度を使う
func (h *Handler) fiscalYearFromQuery(r *http.Request) (int32, bool) {
	yearParam := r.URL.Query().Get("fiscalYear")
	if yearParam == "" {
		return h.config.GA.FiscalYear, true
	}

	year, err := strconv.ParseInt(yearParam, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(year), true
}

func (h *Handler) GetHospitalChoices(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	fiscalYear, ok := h.fiscalYearFromQuery(r)
	if !ok {
		h.errorResponse(w, r, "年度の指定が不正です")
		return
	}

	choices, err := h.repository.GetHospitalChoicesByStaffAndYear(staff.ID, fiscalYear)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "病院希望を取得しました", choices)
}

func (h *Handler) ReplaceHospitalChoices(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		FiscalYear int32 `json:"fiscalYear" validate:"required"`
		Choices    []struct {
			HospitalID int64 `json:"hospitalID" validate:"required"`
			Rank       int32 `json:"rank" validate:"required"`
		} `json:"choices" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	choices := make([]*domain.HospitalChoice, 0, len(req.Choices))
	for _, c := range req.Choices {
		choices = append(choices, &domain.HospitalChoice{
			StaffID:    staff.ID,
			HospitalID: c.HospitalID,
			FiscalYear: req.FiscalYear,
			Rank:       c.Rank,
		})
	}

	hospitals, err := h.repository.GetAllHospitals()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateHospitalChoices(choices, hospitals); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceHospitalChoices(staff.ID, req.FiscalYear, choices); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "病院希望を登録しました", choices)
}

func (h *Handler) GetFactorWeights(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	fiscalYear, ok := h.fiscalYearFromQuery(r)
	if !ok {
		h.errorResponse(w, r, "年度の指定が不正です")
		return
	}

	weights, err := h.repository.GetStaffFactorWeightsByStaffAndYear(staff.ID, fiscalYear)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "重視要素の重みを取得しました", weights)
}

func (h *Handler) ReplaceFactorWeights(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		FiscalYear int32 `json:"fiscalYear" validate:"required"`
		Weights    []struct {
			FactorID int64   `json:"factorID" validate:"required"`
			Weight   float64 `json:"weight" validate:"gte=0,lte=100"`
		} `json:"weights" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weights := make([]*domain.StaffFactorWeight, 0, len(req.Weights))
	for _, wt := range req.Weights {
		weights = append(weights, &domain.StaffFactorWeight{
			StaffID:    staff.ID,
			FactorID:   wt.FactorID,
			FiscalYear: req.FiscalYear,
			Weight:     wt.Weight,
		})
	}

	factors, err := h.repository.GetAllEvaluationFactors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateStaffFactorWeights(weights, factors); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceStaffFactorWeights(staff.ID, req.FiscalYear, weights); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "重視要素の重みを登録しました", weights)
}

func (h *Handler) GetAdminEvaluations(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	fiscalYear, ok := h.fiscalYearFromQuery(r)
	if !ok {
		h.errorResponse(w, r, "年度の指定が不正です")
		return
	}

	evaluations, err := h.repository.GetAdminEvaluationsByStaffAndYear(staff.ID, fiscalYear)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "評価を取得しました", evaluations)
}

func (h *Handler) ReplaceAdminEvaluations(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		FiscalYear  int32 `json:"fiscalYear" validate:"required"`
		Evaluations []struct {
			FactorID int64   `json:"factorID" validate:"required"`
			Value    float64 `json:"value" validate:"gte=0,lte=1"`
			Notes    string  `json:"notes"`
		} `json:"evaluations" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	evaluations := make([]*domain.AdminEvaluation, 0, len(req.Evaluations))
	for _, e := range req.Evaluations {
		evaluations = append(evaluations, &domain.AdminEvaluation{
			StaffID:    staff.ID,
			FactorID:   e.FactorID,
			FiscalYear: req.FiscalYear,
			Value:      e.Value,
			Notes:      e.Notes,
		})
	}

	factors, err := h.repository.GetAllEvaluationFactors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateAdminEvaluations(evaluations, factors); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceAdminEvaluations(staff.ID, req.FiscalYear, evaluations); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "評価を登録しました", evaluations)
}
