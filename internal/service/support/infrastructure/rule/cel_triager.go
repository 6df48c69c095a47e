// internal/service/support/infrastructure/rule/cel_triager.go
package rule

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
	"github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"

	"zirako/internal/service/support/domain"
)

type compiledRule struct {
	name     string
	priority domain.Priority
	program  cel.Program
}

// CELTriager 是 domain.Triager 的 CEL 实现。
// 规则在构造时编译，表达式可以使用 subject、message、category、registered 四个变量。
type CELTriager struct {
	rules []compiledRule
}

// NewCELTriager 编译全部规则；任意一条无法编译、结果不是 bool 或优先级未知时返回错误
func NewCELTriager(rules []domain.TriageRule) (*CELTriager, error) {
	env, err := cel.NewEnv(
		cel.Variable("subject", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("registered", cel.BoolType),
		ext.Strings(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cel env")
	}

	t := &CELTriager{}
	for _, r := range rules {
		priority, ok := domain.ParsePriority(string(r.Priority))
		if !ok {
			return nil, errors.Wrapf(domain.ErrInvalidRule, "rule %q: unknown priority %q", r.Name, r.Priority)
		}
		ast, iss := env.Compile(r.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, errors.Wrapf(domain.ErrInvalidRule, "rule %q: %v", r.Name, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, errors.Wrapf(domain.ErrInvalidRule, "rule %q must evaluate to bool", r.Name)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, errors.Wrapf(err, "plan rule %q", r.Name)
		}
		t.rules = append(t.rules, compiledRule{name: r.Name, priority: priority, program: prg})
	}
	return t, nil
}

// Triage 返回第一条命中规则的优先级；求值出错的规则记录日志后跳过
func (t *CELTriager) Triage(f domain.Facts) (domain.Priority, string, bool) {
	vars := map[string]any{
		"subject":    f.Subject,
		"message":    f.Message,
		"category":   f.Category,
		"registered": f.Registered,
	}
	for _, r := range t.rules {
		out, _, err := r.program.Eval(vars)
		if err != nil {
			zlog.Warn().Err(err).Str("rule", r.name).Msg("triage rule evaluation failed")
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return r.priority, r.name, true
		}
	}
	return "", "", false
}
