package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (h *Handler) CreateEvaluationFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name" validate:"required"`
		Description  string `json:"description"`
		FactorType   string `json:"factorType" validate:"required,oneof=staff_preference admin_evaluation"`
		DisplayOrder int32  `json:"displayOrder" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	factor := &domain.EvaluationFactor{
		Name:         req.Name,
		Description:  req.Description,
		FactorType:   domain.FactorType(req.FactorType),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}

	if err := h.repository.CreateEvaluationFactor(factor); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "評価要素を登録しました", factor)
}

func (h *Handler) GetAllEvaluationFactors(w http.ResponseWriter, r *http.Request) {
	factors, err := h.repository.GetAllEvaluationFactors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "評価要素一覧を取得しました", factors)
}

func (h *Handler) UpdateEvaluationFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		DisplayOrder *int32  `json:"displayOrder" validate:"omitempty,gte=0"`
		IsActive     *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	factor := r.Context().Value(EvaluationFactorCtx).(*domain.EvaluationFactor)

	if req.Name != nil {
		factor.Name = *req.Name
	}
	if req.Description != nil {
		factor.Description = *req.Description
	}
	if req.DisplayOrder != nil {
		factor.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		factor.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEvaluationFactor(factor); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "評価要素の更新に失敗しました。再度お試しください")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "評価要素を更新しました", factor)
}
