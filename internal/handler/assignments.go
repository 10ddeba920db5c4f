package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
	"github.com/ikyoku-dev/resident-match/backend/internal/optimizer"
	"github.com/ikyoku-dev/resident-match/backend/internal/utils"
)

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	fiscalYear, ok := h.fiscalYearFromQuery(r)
	if !ok {
		h.errorResponse(w, r, "年度の指定が不正です")
		return
	}

	assignments, err := h.repository.GetAssignmentsByFiscalYear(fiscalYear)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "配置結果を取得しました", assignments)
}

// GenerateAssignments は遺伝的アルゴリズムで年度の配置案を生成する
//
// 同一年度の同時実行は Redis のロックで防ぐ
// 生成した配置はその年度の既存結果を置き換えて保存し、各専攻医にメールで通知する
func (h *Handler) GenerateAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FiscalYear     int32    `json:"fiscalYear" validate:"required"`
		PopulationSize *int     `json:"populationSize"`
		Generations    *int     `json:"generations"`
		CrossoverProb  *float64 `json:"crossoverProb"`
		MutationProb   *float64 `json:"mutationProb"`
		MismatchBonus  *float64 `json:"mismatchBonus"`
		Seed           int64    `json:"seed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 未指定のパラメータは設定値で補う
	params := optimizer.Parameters{
		PopulationSize: h.config.GA.PopulationSize,
		Generations:    h.config.GA.Generations,
		CrossoverProb:  h.config.GA.CrossoverProb,
		MutationProb:   h.config.GA.MutationProb,
		MismatchBonus:  h.config.GA.MismatchBonus,
		Seed:           req.Seed,
	}
	if req.PopulationSize != nil {
		params.PopulationSize = *req.PopulationSize
	}
	if req.Generations != nil {
		params.Generations = *req.Generations
	}
	if req.CrossoverProb != nil {
		params.CrossoverProb = *req.CrossoverProb
	}
	if req.MutationProb != nil {
		params.MutationProb = *req.MutationProb
	}
	if req.MismatchBonus != nil {
		params.MismatchBonus = *req.MismatchBonus
	}

	if err := params.Validate(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 同一年度の最適化を同時に走らせない
	lockKey := fmt.Sprintf("optimize_lock_%d", req.FiscalYear)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	acquired, err := h.redisClient.SetNX(ctx, lockKey, "1", time.Duration(h.config.GA.LockExpiration)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !acquired {
		h.errorResponse(w, r, "この年度の最適化は既に実行中です")
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.redisClient.Del(ctx, lockKey).Err(); err != nil {
			slog.Error("最適化ロックの解放に失敗しました", "key", lockKey, "error", err)
		}
	}()

	// 入力データをまとめて取得する
	residents, err := h.repository.GetStaffByType(domain.StaffTypeResident)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	hospitals, err := h.repository.GetAllHospitals()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	dataset, err := h.buildDataset(req.FiscalYear, hospitals)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	opt, err := optimizer.New(params)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := opt.LoadData(req.FiscalYear, residents, hospitals, *dataset); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, err := opt.Optimize(r.Context(), func(generation int, bestFitness float64) {
		slog.Info("最適化進捗", "fiscalYear", req.FiscalYear, "generation", generation, "bestFitness", bestFitness)
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	assignments := h.buildDomainAssignments(req.FiscalYear, result, dataset, hospitals)

	if err := h.repository.ReplaceAssignmentsForFiscalYear(req.FiscalYear, assignments); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 配置結果を各専攻医にメールで通知する
	// 通知に失敗しても配置自体は保存済みなのでエラーにはしない
	h.notifyAssignments(req.FiscalYear, residents, hospitals, assignments)

	h.successResponse(w, r, "配置案を生成しました", struct {
		Assignments []*domain.Assignment        `json:"assignments"`
		BestFitness float64                     `json:"bestFitness"`
		Generations int                         `json:"generations"`
		Stats       []optimizer.GenerationStats `json:"stats"`
	}{
		Assignments: assignments,
		BestFitness: result.BestFitness,
		Generations: result.Generations,
		Stats:       result.Stats,
	})
}

// buildDataset は年度の希望・重み・評価・通勤情報を最適化用に組み立てる
func (h *Handler) buildDataset(fiscalYear int32, hospitals []*domain.Hospital) (*optimizer.Dataset, error) {
	choices, err := h.repository.GetHospitalChoiceMapByFiscalYear(fiscalYear)
	if err != nil {
		return nil, err
	}

	weights, err := h.repository.GetStaffFactorWeightMapByFiscalYear(fiscalYear)
	if err != nil {
		return nil, err
	}

	evaluations, err := h.repository.GetAdminEvaluationMapByFiscalYear(fiscalYear)
	if err != nil {
		return nil, err
	}

	staffFactors, err := h.repository.GetActiveEvaluationFactorsByType(domain.FactorTypeStaffPreference)
	if err != nil {
		return nil, err
	}

	adminFactors, err := h.repository.GetActiveEvaluationFactorsByType(domain.FactorTypeAdminEvaluation)
	if err != nil {
		return nil, err
	}

	caches, err := h.repository.GetAllCommuteCaches()
	if err != nil {
		return nil, err
	}

	commutes := make(map[optimizer.CommuteKey]float64, len(caches))
	for _, cache := range caches {
		commutes[optimizer.CommuteKey{StaffID: cache.StaffID, HospitalID: cache.HospitalID}] = float64(cache.DrivingTimeMinutes)
	}

	capacities := make(map[int64]int32, len(hospitals))
	for _, hospital := range hospitals {
		capacities[hospital.ID] = hospital.ResidentCapacity
	}

	dataset := &optimizer.Dataset{
		Choices:          choices,
		Weights:          weights,
		AdminEvaluations: evaluations,
		Commutes:         commutes,
		StaffFactors:     make([]optimizer.FactorInfo, 0, len(staffFactors)),
		AdminFactors:     make([]optimizer.FactorInfo, 0, len(adminFactors)),
		Capacities:       capacities,
	}
	for _, factor := range staffFactors {
		dataset.StaffFactors = append(dataset.StaffFactors, optimizer.FactorInfo{ID: factor.ID, Name: factor.Name})
	}
	for _, factor := range adminFactors {
		dataset.AdminFactors = append(dataset.AdminFactors, optimizer.FactorInfo{ID: factor.ID, Name: factor.Name})
	}

	return dataset, nil
}

// buildDomainAssignments は最適化結果を保存用のレコードに変換する
func (h *Handler) buildDomainAssignments(fiscalYear int32, result *optimizer.Result, dataset *optimizer.Dataset, hospitals []*domain.Hospital) []*domain.Assignment {
	startDate := utils.FiscalYearStartDate(fiscalYear)
	endDate := utils.FiscalYearEndDate(fiscalYear)

	// 希望病院が最終的に定員まで埋まっていたかの判定に使う
	assignedCount := make(map[int64]int32)
	for _, ra := range result.Assignments {
		assignedCount[ra.HospitalID]++
	}
	capacities := make(map[int64]int32, len(hospitals))
	for _, hospital := range hospitals {
		capacities[hospital.ID] = hospital.ResidentCapacity
	}

	assignments := make([]*domain.Assignment, 0, len(result.Assignments))
	for _, ra := range result.Assignments {
		assignment := &domain.Assignment{
			StaffID:      ra.StaffID,
			HospitalID:   ra.HospitalID,
			FiscalYear:   fiscalYear,
			StartDate:    startDate,
			EndDate:      endDate,
			FitnessScore: ra.Fitness,
		}

		if ra.HopeRank > 0 {
			rank := ra.HopeRank
			assignment.HopeRank = &rank
		} else {
			assignment.MismatchFlag = true
			assignment.MismatchReason = mismatchReason(ra.StaffID, dataset, assignedCount, capacities)
		}

		if minutes, ok := dataset.Commutes[optimizer.CommuteKey{StaffID: ra.StaffID, HospitalID: ra.HospitalID}]; ok {
			commute := int32(minutes)
			assignment.CommuteTime = &commute
		}

		assignments = append(assignments, assignment)
	}

	return assignments
}

// mismatchReason は希望外配置になった理由を推定する
func mismatchReason(staffID int64, dataset *optimizer.Dataset, assignedCount map[int64]int32, capacities map[int64]int32) *string {
	choices := dataset.Choices[staffID]
	if len(choices) == 0 {
		reason := domain.MismatchReasonNoPreference
		return &reason
	}

	// 希望した病院が全て定員まで埋まっていれば定員超過、そうでなければ適合度の問題
	allFull := true
	for _, hospitalID := range choices {
		if assignedCount[hospitalID] < capacities[hospitalID] {
			allFull = false
			break
		}
	}

	reason := domain.MismatchReasonLowFitness
	if allFull {
		reason = domain.MismatchReasonCapacityFull
	}
	return &reason
}

func (h *Handler) notifyAssignments(fiscalYear int32, residents []*domain.Staff, hospitals []*domain.Hospital, assignments []*domain.Assignment) {
	staffByID := make(map[int64]*domain.Staff, len(residents))
	for _, resident := range residents {
		staffByID[resident.ID] = resident
	}
	hospitalByID := make(map[int64]*domain.Hospital, len(hospitals))
	for _, hospital := range hospitals {
		hospitalByID[hospital.ID] = hospital
	}

	for _, assignment := range assignments {
		staff := staffByID[assignment.StaffID]
		hospital := hospitalByID[assignment.HospitalID]
		if staff == nil || hospital == nil {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "assignment_notice",
			To:   staff.Email,
			Data: domain.AssignmentNoticeMailData{
				FullName:     staff.Name,
				HospitalName: hospital.Name,
				FiscalYear:   fiscalYear,
				StartDate:    assignment.StartDate.Format("2006-01-02"),
				EndDate:      assignment.EndDate.Format("2006-01-02"),
				HopeRank:     assignment.HopeRank,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			slog.Error("配置通知メールの作成に失敗しました", "staffID", assignment.StaffID, "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		if err := h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		); err != nil {
			slog.Error("配置通知メールの送信に失敗しました", "staffID", assignment.StaffID, "error", err)
		}
		cancel()
	}
}
