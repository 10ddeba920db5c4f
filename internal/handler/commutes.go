package handler

import (
	"net/http"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (h *Handler) GetCommuteCaches(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	caches, err := h.repository.GetCommuteCachesByStaffID(staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "通勤情報を取得しました", caches)
}

// UpsertCommuteCache は経路検索の結果を登録する
// 同じ専攻医・病院の組み合わせが既にあれば上書きする
func (h *Handler) UpsertCommuteCache(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		HospitalID         int64   `json:"hospitalID" validate:"required"`
		DrivingTimeMinutes int32   `json:"drivingTimeMinutes" validate:"gte=0"`
		DrivingDistanceKm  float64 `json:"drivingDistanceKm" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetHospitalByID(req.HospitalID); err != nil {
		h.errorResponse(w, r, "病院が存在しません")
		return
	}

	cache := &domain.CommuteCache{
		StaffID:            staff.ID,
		HospitalID:         req.HospitalID,
		DrivingTimeMinutes: req.DrivingTimeMinutes,
		DrivingDistanceKm:  req.DrivingDistanceKm,
	}

	if err := h.repository.UpsertCommuteCache(cache); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "通勤情報を登録しました", cache)
}
