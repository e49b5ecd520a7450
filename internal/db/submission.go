package db

// Submission 表示一条只追加的表单记录：提交的字段加 createdAt，活动报名另含 eventId。
type Submission map[string]any

const (
	SubmissionCreatedAtKey = "createdAt"
	SubmissionEventIDKey   = "eventId"
)

// EventID 返回报名记录对应的活动 id。
func (s Submission) EventID() string {
	id, _ := s[SubmissionEventIDKey].(string)
	return id
}
