package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

var commonSurnames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
	"吉田", "山田", "佐々木", "山口", "松本", "井上", "木村", "林", "斎藤", "清水",
}
var commonGivenNames = []string{
	"太郎", "一郎", "健太", "大輔", "直樹", "拓也", "翔太", "誠", "学", "浩",
	"花子", "美咲", "陽子", "恵", "由美", "彩", "真由", "愛", "舞", "遥",
}

func GenerateRandomJapaneseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	givenName := commonGivenNames[rand.Intn(len(commonGivenNames))]
	return surname + " " + givenName
}

var digits = "0123456789"

// GenerateUsernameFromName は漢字名をローマ字化してユーザー名を作る
// 末尾に 1〜3 桁の数字を付けて衝突しにくくする
func GenerateUsernameFromName(name string) string {
	readings := pinyin.LazyConvert(name, nil)
	username := ""

	for _, reading := range readings {
		length := rand.Intn(len(reading)) + 1
		username += reading[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var roles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleClerk,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomJapaneseName()
	username := GenerateUsernameFromName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var staffTypes = []domain.StaffType{
	domain.StaffTypeResident,
	domain.StaffTypeAssistantProfessor,
	domain.StaffTypeLecturer,
	domain.StaffTypeAssociateProfessor,
	domain.StaffTypeProfessor,
	domain.StaffTypeAdministrative,
}

func GenerateRandomStaffType() domain.StaffType {
	return staffTypes[rand.Intn(len(staffTypes))]
}

func GenerateRandomStaff(staffType domain.StaffType, emailDomainName string) *domain.Staff {
	fullName := GenerateRandomJapaneseName()
	username := GenerateUsernameFromName(fullName)

	return &domain.Staff{
		Name:      fullName,
		Email:     username + "@" + emailDomainName,
		Phone:     fmt.Sprintf("090-%04d-%04d", rand.Intn(10000), rand.Intn(10000)),
		StaffType: staffType,
		Address:   fmt.Sprintf("東京都文京区本郷%d-%d-%d", rand.Intn(7)+1, rand.Intn(20)+1, rand.Intn(15)+1),
	}
}

var hospitalNamePrefixes = []string{
	"中央", "東", "西", "南", "北", "みなと", "さくら", "あおば", "ひかり", "わかば",
}

func GenerateRandomHospital() *domain.Hospital {
	return &domain.Hospital{
		Name:               hospitalNamePrefixes[rand.Intn(len(hospitalNamePrefixes))] + "総合病院" + GenerateRandomID(0, 3),
		DirectorName:       GenerateRandomJapaneseName(),
		Address:            fmt.Sprintf("東京都世田谷区用賀%d-%d-%d", rand.Intn(8)+1, rand.Intn(20)+1, rand.Intn(15)+1),
		ResidentCapacity:   int32(rand.Intn(4) + 1),
		SpecialistCapacity: int32(rand.Intn(5) + 1),
		InstructorCapacity: int32(rand.Intn(3) + 1),
		AnnualSalary:       float64(rand.Intn(800)+500) * 10000,
		OutpatientFlag:     rand.Intn(2) == 0,
	}
}

// GenerateRandomHospitalChoices は重複のない第 1〜第 3 希望を生成する
func GenerateRandomHospitalChoices(staffID int64, fiscalYear int32, hospitals []*domain.Hospital) []*domain.HospitalChoice {
	shuffled := append([]*domain.Hospital{}, hospitals...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	n := MaxChoiceRank
	if len(shuffled) < n {
		n = len(shuffled)
	}

	choices := make([]*domain.HospitalChoice, 0, n)
	for i := 0; i < n; i++ {
		choices = append(choices, &domain.HospitalChoice{
			StaffID:    staffID,
			HospitalID: shuffled[i].ID,
			FiscalYear: fiscalYear,
			Rank:       int32(i + 1),
		})
	}

	return choices
}

// GenerateRandomFactorWeights は合計がちょうど 100 になる重みを生成する
func GenerateRandomFactorWeights(staffID int64, fiscalYear int32, factors []*domain.EvaluationFactor) []*domain.StaffFactorWeight {
	staffFactors := make([]*domain.EvaluationFactor, 0)
	for _, factor := range factors {
		if factor.FactorType == domain.FactorTypeStaffPreference {
			staffFactors = append(staffFactors, factor)
		}
	}
	if len(staffFactors) == 0 {
		return nil
	}

	weights := make([]*domain.StaffFactorWeight, 0, len(staffFactors))
	remaining := 100.0
	for i, factor := range staffFactors {
		weight := remaining
		if i < len(staffFactors)-1 {
			weight = float64(rand.Intn(int(remaining) + 1))
		}
		remaining -= weight

		weights = append(weights, &domain.StaffFactorWeight{
			StaffID:    staffID,
			FactorID:   factor.ID,
			FiscalYear: fiscalYear,
			Weight:     weight,
		})
	}

	return weights
}

func GenerateRandomAdminEvaluations(staffID int64, fiscalYear int32, factors []*domain.EvaluationFactor) []*domain.AdminEvaluation {
	evaluations := make([]*domain.AdminEvaluation, 0)
	for _, factor := range factors {
		if factor.FactorType != domain.FactorTypeAdminEvaluation {
			continue
		}
		evaluations = append(evaluations, &domain.AdminEvaluation{
			StaffID:    staffID,
			FactorID:   factor.ID,
			FiscalYear: fiscalYear,
			Value:      float64(rand.Intn(101)) / 100,
		})
	}

	return evaluations
}

func GenerateRandomCommuteCache(staffID int64, hospitalID int64) *domain.CommuteCache {
	minutes := rand.Intn(115) + 5

	return &domain.CommuteCache{
		StaffID:            staffID,
		HospitalID:         hospitalID,
		DrivingTimeMinutes: int32(minutes),
		DrivingDistanceKm:  float64(minutes) * (0.5 + rand.Float64()*0.5),
	}
}
