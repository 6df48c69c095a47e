package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zirako/internal/pkg/bootstrap"
	supportdomain "zirako/internal/service/support/domain"
	"zirako/internal/service/support/infrastructure/rule"
)

func TestShippedTriageRulesCompile(t *testing.T) {
	cfg, err := bootstrap.LoadConfig("../../configs/config.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Support.TriageRules)

	triager, err := rule.NewCELTriager(triageRules(cfg.Support.TriageRules))
	require.NoError(t, err)

	priority, name, ok := triager.Triage(supportdomain.Facts{Subject: "Problema con un PAGO"})
	require.True(t, ok)
	assert.Equal(t, "payments", name)
	assert.Equal(t, supportdomain.PriorityHigh, priority)

	_, _, ok = triager.Triage(supportdomain.Facts{Subject: "Hola", Registered: true})
	assert.False(t, ok)
}
