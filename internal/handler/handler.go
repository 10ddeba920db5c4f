package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/ikyoku-dev/resident-match/backend/internal/config"
	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
	"github.com/ikyoku-dev/resident-match/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ja := ja.New()
	uni := ut.New(ja, ja)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 認証まわり
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下の API はログイン必須
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaff)
				r.Patch("/", h.UpdateStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteStaff)

				// 希望・重み・評価・通勤情報は専攻医のみ
				r.Group(func(r chi.Router) {
					r.Use(h.residentOnly)
					r.Get("/choices", h.GetHospitalChoices)
					r.Put("/choices", h.ReplaceHospitalChoices)
					r.Get("/weights", h.GetFactorWeights)
					r.Put("/weights", h.ReplaceFactorWeights)
					r.Get("/evaluations", h.GetAdminEvaluations)
					r.Put("/evaluations", h.ReplaceAdminEvaluations)
					r.Get("/commutes", h.GetCommuteCaches)
					r.Put("/commutes", h.UpsertCommuteCache)
				})
			})
		})

		r.Route("/hospitals", func(r chi.Router) {
			r.Post("/", h.CreateHospital)
			r.Get("/", h.GetAllHospitals)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.hospitalInfo)
				r.Get("/", h.GetHospital)
				r.Patch("/", h.UpdateHospital)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteHospital)
			})
		})

		r.Route("/evaluation-factors", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateEvaluationFactor)
			r.Get("/", h.GetAllEvaluationFactors)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.evaluationFactor)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateEvaluationFactor)
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", h.GetAssignments)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/generate", h.GenerateAssignments)
		})
	})
}
