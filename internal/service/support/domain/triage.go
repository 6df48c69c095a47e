// internal/service/support/domain/triage.go
package domain

// Facts 是分诊规则可以读取的工单字段
type Facts struct {
	Subject    string
	Message    string
	Category   string
	Registered bool
}

// TriageRule 是一条按顺序匹配的分诊规则
type TriageRule struct {
	Name       string
	Expression string
	Priority   Priority
}

// Triager 根据规则推断工单优先级，没有规则命中时 ok 为 false
type Triager interface {
	Triage(f Facts) (p Priority, rule string, ok bool)
}
