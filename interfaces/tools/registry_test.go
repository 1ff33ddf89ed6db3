package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func staticHandler(outcome string, body interface{}) Handler {
	return func(ctx context.Context, args json.RawMessage) Response {
		return Response{Outcome: outcome, Body: body}
	}
}

func TestRegistry_InvokeMarshalsBody(t *testing.T) {
	reg := NewRegistry(zap.NewNop(), nil)
	require.NoError(t, reg.Register(ToolSpec{
		Name:    "echoStatus",
		Handler: staticHandler(OutcomeSuccess, statusResponse{Status: "success", Response: "ok"}),
	}))

	payload, err := reg.Invoke(context.Background(), "echoStatus", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","response":"ok"}`, string(payload))
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg := NewRegistry(zap.NewNop(), nil)

	_, err := reg.Invoke(context.Background(), "doesNotExist", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	reg := NewRegistry(zap.NewNop(), nil)
	spec := ToolSpec{Name: "dup", Handler: staticHandler(OutcomeSuccess, nil)}

	require.NoError(t, reg.Register(spec))
	assert.Error(t, reg.Register(spec))
}

func TestRegistry_ListSortedCatalog(t *testing.T) {
	reg := NewRegistry(zap.NewNop(), nil)
	tools := NewAirlineTools(nil, zap.NewNop())
	require.NoError(t, reg.RegisterAll(tools.Specs()))

	infos := reg.List()

	require.Len(t, infos, 4)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{
		"createSupportTicket",
		"requestForSpecialMeal",
		"userProfileByBookingReference",
		"userProfileByFrequentFlyerNumber",
	}, names)
	for _, info := range infos {
		if info.Name == "createSupportTicket" {
			assert.False(t, info.ReadOnly)
			assert.False(t, info.Idempotent)
		}
		if info.Name == "userProfileByFrequentFlyerNumber" {
			assert.True(t, info.ReadOnly)
			assert.True(t, info.Idempotent)
		}
	}
}
