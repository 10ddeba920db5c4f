package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (h *Handler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string  `json:"name" validate:"required"`
		DirectorName       string  `json:"directorName"`
		Address            string  `json:"address"`
		ResidentCapacity   int32   `json:"residentCapacity" validate:"gte=0"`
		SpecialistCapacity int32   `json:"specialistCapacity" validate:"gte=0"`
		InstructorCapacity int32   `json:"instructorCapacity" validate:"gte=0"`
		AnnualSalary       float64 `json:"annualSalary" validate:"gte=0"`
		OutpatientFlag     bool    `json:"outpatientFlag"`
		Notes              string  `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hospital := &domain.Hospital{
		Name:               req.Name,
		DirectorName:       req.DirectorName,
		Address:            req.Address,
		ResidentCapacity:   req.ResidentCapacity,
		SpecialistCapacity: req.SpecialistCapacity,
		InstructorCapacity: req.InstructorCapacity,
		AnnualSalary:       req.AnnualSalary,
		OutpatientFlag:     req.OutpatientFlag,
		Notes:              req.Notes,
	}

	if err := h.repository.CreateHospital(hospital); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "病院を登録しました", hospital)
}

func (h *Handler) GetAllHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.repository.GetAllHospitals()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "病院一覧を取得しました", hospitals)
}

func (h *Handler) GetHospital(w http.ResponseWriter, r *http.Request) {
	hospital := r.Context().Value(HospitalInfoCtx).(*domain.Hospital)
	h.successResponse(w, r, "病院情報を取得しました", hospital)
}

func (h *Handler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               *string  `json:"name"`
		DirectorName       *string  `json:"directorName"`
		Address            *string  `json:"address"`
		ResidentCapacity   *int32   `json:"residentCapacity" validate:"omitempty,gte=0"`
		SpecialistCapacity *int32   `json:"specialistCapacity" validate:"omitempty,gte=0"`
		InstructorCapacity *int32   `json:"instructorCapacity" validate:"omitempty,gte=0"`
		AnnualSalary       *float64 `json:"annualSalary" validate:"omitempty,gte=0"`
		OutpatientFlag     *bool    `json:"outpatientFlag"`
		Notes              *string  `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hospital := r.Context().Value(HospitalInfoCtx).(*domain.Hospital)

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.DirectorName != nil {
		hospital.DirectorName = *req.DirectorName
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.ResidentCapacity != nil {
		hospital.ResidentCapacity = *req.ResidentCapacity
	}
	if req.SpecialistCapacity != nil {
		hospital.SpecialistCapacity = *req.SpecialistCapacity
	}
	if req.InstructorCapacity != nil {
		hospital.InstructorCapacity = *req.InstructorCapacity
	}
	if req.AnnualSalary != nil {
		hospital.AnnualSalary = *req.AnnualSalary
	}
	if req.OutpatientFlag != nil {
		hospital.OutpatientFlag = *req.OutpatientFlag
	}
	if req.Notes != nil {
		hospital.Notes = *req.Notes
	}

	if err := h.repository.UpdateHospital(hospital); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "病院情報の更新に失敗しました。再度お試しください")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "病院情報を更新しました", hospital)
}

func (h *Handler) DeleteHospital(w http.ResponseWriter, r *http.Request) {
	hospital := r.Context().Value(HospitalInfoCtx).(*domain.Hospital)

	if err := h.repository.DeleteHospital(hospital.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "病院を削除しました", nil)
}
