package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/config"
	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
	"github.com/ikyoku-dev/resident-match/backend/internal/repository"
	"github.com/ikyoku-dev/resident-match/backend/internal/seed"
	"github.com/ikyoku-dev/resident-match/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "実行する操作 (1: ランダムなユーザーを投入, 2: ランダムな職員を投入, 3: ランダムな病院を投入, 4: 希望・重み・評価・通勤情報を投入, 5: 評価要素マスタを投入)")
	flag.IntVar(&n, "n", 5, "投入する件数")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 設定の読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定を読み込めません", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// データベース接続プールの作成
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("データベース接続プールを作成できません", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open はプールを作るだけで実際には接続しないので、明示的に ping する
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("データベースに接続できません", "error", err)
		return
	}

	// repository の作成
	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("操作が指定されていません")
	case 1:
		if n <= 0 {
			slog.Error("正しい件数を指定してください")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("ランダムなユーザーを生成できません", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("ユーザーを投入できません", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("ユーザーを投入しました", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("正しい件数を指定してください")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				// 半分は専攻医、残りはランダムな職種にする
				staffType := utils.GenerateRandomStaffType()
				if i%2 == 0 {
					staffType = domain.StaffTypeResident
				}

				staff := utils.GenerateRandomStaff(staffType, cfg.Email.UserDomain)
				if err := repo.CreateStaff(staff); err != nil {
					slog.Error("職員を投入できません", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("職員を投入しました", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("正しい件数を指定してください")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				hospital := utils.GenerateRandomHospital()
				if err := repo.CreateHospital(hospital); err != nil {
					slog.Error("病院を投入できません", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("病院を投入しました", slog.Int("count", n-cnt))
		}
	case 4:
		// 登録済みの専攻医・病院・評価要素に対して、最適化に必要な入力を一式投入する
		residents, err := repo.GetStaffByType(domain.StaffTypeResident)
		if err != nil {
			slog.Error("専攻医の取得に失敗しました", slog.String("error", err.Error()))
			return
		}
		if len(residents) == 0 {
			slog.Error("専攻医が登録されていません")
			return
		}

		hospitals, err := repo.GetAllHospitals()
		if err != nil {
			slog.Error("病院の取得に失敗しました", slog.String("error", err.Error()))
			return
		}
		if len(hospitals) == 0 {
			slog.Error("病院が登録されていません")
			return
		}

		factors, err := repo.GetAllEvaluationFactors()
		if err != nil {
			slog.Error("評価要素の取得に失敗しました", slog.String("error", err.Error()))
			return
		}

		fiscalYear := cfg.GA.FiscalYear
		cnt := 0
		for _, resident := range residents {
			choices := utils.GenerateRandomHospitalChoices(resident.ID, fiscalYear, hospitals)
			if err := repo.ReplaceHospitalChoices(resident.ID, fiscalYear, choices); err != nil {
				slog.Error("病院希望の投入に失敗しました", slog.Int64("staffID", resident.ID), slog.String("error", err.Error()))
				continue
			}

			weights := utils.GenerateRandomFactorWeights(resident.ID, fiscalYear, factors)
			if len(weights) > 0 {
				if err := repo.ReplaceStaffFactorWeights(resident.ID, fiscalYear, weights); err != nil {
					slog.Error("重みの投入に失敗しました", slog.Int64("staffID", resident.ID), slog.String("error", err.Error()))
					continue
				}
			}

			evaluations := utils.GenerateRandomAdminEvaluations(resident.ID, fiscalYear, factors)
			if len(evaluations) > 0 {
				if err := repo.ReplaceAdminEvaluations(resident.ID, fiscalYear, evaluations); err != nil {
					slog.Error("評価の投入に失敗しました", slog.Int64("staffID", resident.ID), slog.String("error", err.Error()))
					continue
				}
			}

			for _, hospital := range hospitals {
				cache := utils.GenerateRandomCommuteCache(resident.ID, hospital.ID)
				if err := repo.UpsertCommuteCache(cache); err != nil {
					slog.Error("通勤情報の投入に失敗しました", slog.Int64("staffID", resident.ID), slog.String("error", err.Error()))
				}
			}

			cnt++
		}

		slog.Info("最適化の入力データを投入しました", slog.Int("count", cnt))
	case 5:
		seed.SeedEvaluationFactors(repo)
	default:
		slog.Error("指定された操作は無効です")
	}
}
