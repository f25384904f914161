package repository

// UserProblemStatus is one row of user_problem_status. Rows are only ever inserted, and only for
// fully passing runs.
type UserProblemStatus struct {
	UserID    int64  `json:"user_id" gorm:"column:user_id"`
	ProblemID int64  `json:"problem_id" gorm:"column:problem_id"`
	Status    string `json:"status" gorm:"column:status"`
	Code      string `json:"code" gorm:"column:code"`
}

func (UserProblemStatus) TableName() string {
	return "user_problem_status"
}
