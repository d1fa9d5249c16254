package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesStepsInOrder(t *testing.T) {
	var order []string
	flow := Flow{
		Name: "demo",
		Steps: []Step{
			NewStep("first", func(ctx *FlowContext) error {
				order = append(order, "first")
				ctx.Process["value"] = 1
				return nil
			}),
			NewStep("second", func(ctx *FlowContext) error {
				order = append(order, "second")
				ctx.Output["value"] = ctx.Process["value"].(int) + 1
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	fc := NewFlowContext(context.Background(), map[string]any{}, nil, nil)
	require.NoError(t, engine.Run("demo", fc))

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 2, fc.Output["value"])
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var secondRan bool
	flow := Flow{
		Name: "demo",
		Steps: []Step{
			NewStep("first", func(ctx *FlowContext) error { return boom }),
			NewStep("second", func(ctx *FlowContext) error {
				secondRan = true
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	fc := NewFlowContext(context.Background(), map[string]any{}, nil, nil)
	err := engine.Run("demo", fc)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "first step failed")
	assert.False(t, secondRan)
}

func TestRunUnknownFlow(t *testing.T) {
	engine := NewEngine()
	fc := NewFlowContext(context.Background(), map[string]any{}, nil, nil)
	err := engine.Run("missing", fc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported flow")
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran bool
	flow := Flow{
		Name: "demo",
		Steps: []Step{
			NewStep("first", func(fc *FlowContext) error {
				ran = true
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	fc := NewFlowContext(ctx, map[string]any{}, nil, nil)
	err := engine.Run("demo", fc)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestExtractTime(t *testing.T) {
	fc := NewFlowContext(context.Background(), map[string]any{
		"start_time": "2026-03-01T10:00:00Z",
		"bad":        "yesterday",
	}, nil, nil)

	ts, err := fc.ExtractTime("start_time")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())

	_, err = fc.ExtractTime("bad")
	require.Error(t, err)

	_, err = fc.ExtractTime("missing")
	require.Error(t, err)
}
