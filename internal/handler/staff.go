package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		Phone     string `json:"phone"`
		StaffType string `json:"staffType" validate:"required,oneof=専攻医 助教 講師 准教授 教授 事務職員"`
		Address   string `json:"address"`
		Notes     string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.Staff{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		StaffType: domain.StaffType(req.StaffType),
		Address:   req.Address,
		Notes:     req.Notes,
	}

	if err := h.repository.CreateStaff(staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "staff_email_key":
				h.badRequest(w, r, errors.New("メールアドレスは既に登録されています"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "職員を登録しました", staff)
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	// staffType クエリで絞り込める（専攻医の一覧取得に使う）
	staffType := r.URL.Query().Get("staffType")

	var staffs []*domain.Staff
	var err error
	if staffType == "" {
		staffs, err = h.repository.GetAllStaff()
	} else {
		staffs, err = h.repository.GetStaffByType(domain.StaffType(staffType))
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "職員一覧を取得しました", staffs)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)
	h.successResponse(w, r, "職員情報を取得しました", staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string `json:"name"`
		Email     *string `json:"email" validate:"omitempty,email"`
		Phone     *string `json:"phone"`
		StaffType *string `json:"staffType" validate:"omitempty,oneof=専攻医 助教 講師 准教授 教授 事務職員"`
		Address   *string `json:"address"`
		Notes     *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.StaffType != nil {
		staff.StaffType = domain.StaffType(*req.StaffType)
	}
	if req.Address != nil {
		staff.Address = *req.Address
	}
	if req.Notes != nil {
		staff.Notes = *req.Notes
	}

	if err := h.repository.UpdateStaff(staff); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "職員情報の更新に失敗しました。再度お試しください")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "職員情報を更新しました", staff)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	if err := h.repository.DeleteStaff(staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "職員を削除しました", nil)
}
