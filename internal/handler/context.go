package handler

type ContextKey string

var (
	RoleCtxKey          ContextKey = "role"
	SubCtxKey           ContextKey = "sub"
	MyInfoCtx           ContextKey = "myInfo"
	UserInfoCtx         ContextKey = "userInfo"
	StaffInfoCtx        ContextKey = "staffInfo"
	HospitalInfoCtx     ContextKey = "hospitalInfo"
	EvaluationFactorCtx ContextKey = "evaluationFactor"
)
