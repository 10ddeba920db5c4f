package optimizer

import (
	"errors"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

var (
	ErrNoResidents = errors.New("専攻医が登録されていません")
	ErrNoHospitals = errors.New("病院が登録されていません")
)

// 評価要素（id と表示名のみ）
type FactorInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// 通勤時間キャッシュのキー
type CommuteKey struct {
	StaffID    int64
	HospitalID int64
}

// Dataset: リポジトリ層が読み込んだフィットネス計算用の生データ
// nil のマップは空として扱う
type Dataset struct {
	Choices          map[int64]map[int32]int64   // {staffID: {rank: hospitalID}}
	Weights          map[int64]map[int64]float64 // {staffID: {factorID: weight}}
	AdminEvaluations map[int64]map[int64]float64 // {staffID: {factorID: value}}
	Commutes         map[CommuteKey]float64      // {(staffID, hospitalID): minutes}
	StaffFactors     []FactorInfo
	AdminFactors     []FactorInfo
	Capacities       map[int64]int32 // {hospitalID: 専攻医受入人数}
}

// Context: 1 回の最適化で使う読み取り専用スナップショット
// 構築後は変更されない前提で、全ての評価関数はこれに対して純粋に動く
type Context struct {
	fiscalYear      int32
	residents       []*domain.Staff
	hospitals       []*domain.Hospital
	residentIDToIdx map[int64]int
	hospitalIDToIdx map[int64]int
	data            Dataset
}

func NewContext(fiscalYear int32, residents []*domain.Staff, hospitals []*domain.Hospital, data Dataset) (*Context, error) {
	if len(residents) == 0 {
		return nil, ErrNoResidents
	}
	if len(hospitals) == 0 {
		return nil, ErrNoHospitals
	}

	residentIDToIdx := make(map[int64]int, len(residents))
	for i, r := range residents {
		residentIDToIdx[r.ID] = i
	}

	hospitalIDToIdx := make(map[int64]int, len(hospitals))
	for i, h := range hospitals {
		hospitalIDToIdx[h.ID] = i
	}

	if data.Choices == nil {
		data.Choices = map[int64]map[int32]int64{}
	}
	if data.Weights == nil {
		data.Weights = map[int64]map[int64]float64{}
	}
	if data.AdminEvaluations == nil {
		data.AdminEvaluations = map[int64]map[int64]float64{}
	}
	if data.Commutes == nil {
		data.Commutes = map[CommuteKey]float64{}
	}
	if data.Capacities == nil {
		data.Capacities = map[int64]int32{}
	}

	return &Context{
		fiscalYear:      fiscalYear,
		residents:       residents,
		hospitals:       hospitals,
		residentIDToIdx: residentIDToIdx,
		hospitalIDToIdx: hospitalIDToIdx,
		data:            data,
	}, nil
}

func (c *Context) FiscalYear() int32 { return c.fiscalYear }

func (c *Context) NumResidents() int { return len(c.residents) }

func (c *Context) NumHospitals() int { return len(c.hospitals) }

// choiceRank は病院が希望に含まれる場合その順位、含まれない場合 0 を返す
func (c *Context) choiceRank(staffID int64, hospitalID int64) int32 {
	for rank, hID := range c.data.Choices[staffID] {
		if hID == hospitalID {
			return rank
		}
	}
	return 0
}

// NarrowTo は結果レポート用に 1 名だけを対象とするビューを作る
// マップ類は元のスナップショットと共有する（参照のみのため）
func (c *Context) NarrowTo(i int) *Context {
	r := c.residents[i]
	return &Context{
		fiscalYear:      c.fiscalYear,
		residents:       []*domain.Staff{r},
		hospitals:       c.hospitals,
		residentIDToIdx: map[int64]int{r.ID: 0},
		hospitalIDToIdx: c.hospitalIDToIdx,
		data:            c.data,
	}
}
