package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zirako/internal/service/support/domain"
)

var rules = []domain.TriageRule{
	{Name: "broken", Expression: `int(subject) > 0`, Priority: domain.PriorityHigh},
	{Name: "payments", Expression: `subject.lowerAscii().contains("pago") || message.lowerAscii().contains("fraude")`, Priority: domain.PriorityHigh},
	{Name: "locked-out", Expression: `!registered && category == "cuenta"`, Priority: domain.PriorityHigh},
	{Name: "feedback", Expression: `category == "sugerencia"`, Priority: domain.PriorityLow},
}

func TestTriage(t *testing.T) {
	triager, err := NewCELTriager(rules)
	require.NoError(t, err)

	cases := []struct {
		name     string
		facts    domain.Facts
		priority domain.Priority
		rule     string
		matched  bool
	}{
		{"payment subject", domain.Facts{Subject: "Problema con el PAGO"}, domain.PriorityHigh, "payments", true},
		{"fraud message", domain.Facts{Subject: "Ayuda", Message: "posible fraude"}, domain.PriorityHigh, "payments", true},
		{"anonymous account issue", domain.Facts{Subject: "No puedo entrar", Category: "cuenta"}, domain.PriorityHigh, "locked-out", true},
		{"registered account issue", domain.Facts{Subject: "Cambiar correo", Category: "cuenta", Registered: true}, "", "", false},
		{"suggestion", domain.Facts{Subject: "Idea", Category: "sugerencia"}, domain.PriorityLow, "feedback", true},
		{"nothing", domain.Facts{Subject: "Hola"}, "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, rule, ok := triager.Triage(tc.facts)
			assert.Equal(t, tc.matched, ok)
			assert.Equal(t, tc.priority, p)
			assert.Equal(t, tc.rule, rule)
		})
	}
}

func TestNewCELTriagerRejectsBadRules(t *testing.T) {
	_, err := NewCELTriager([]domain.TriageRule{{Name: "syntax", Expression: `subject ==`, Priority: domain.PriorityHigh}})
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = NewCELTriager([]domain.TriageRule{{Name: "not-bool", Expression: `subject`, Priority: domain.PriorityHigh}})
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = NewCELTriager([]domain.TriageRule{{Name: "unknown-var", Expression: `amount > 10`, Priority: domain.PriorityHigh}})
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = NewCELTriager([]domain.TriageRule{{Name: "bad-priority", Expression: `registered`, Priority: "urgent"}})
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	spanish, err := NewCELTriager([]domain.TriageRule{{Name: "es", Expression: `registered`, Priority: "alta"}})
	require.NoError(t, err)
	priority, _, ok := spanish.Triage(domain.Facts{Registered: true})
	require.True(t, ok)
	assert.Equal(t, domain.PriorityHigh, priority)

	empty, err := NewCELTriager(nil)
	require.NoError(t, err)
	_, _, ok = empty.Triage(domain.Facts{Subject: "pago"})
	assert.False(t, ok)
}
