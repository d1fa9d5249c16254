package core

import (
	"context"
	"fmt"
	"time"

	"gearpool/pkg/client"
	"gearpool/pkg/logger"
)

// FlowContext carries one flow execution: raw caller input, intermediate
// values the steps pass to each other, and the output returned to the caller.
type FlowContext struct {
	Ctx     context.Context
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	Log     *logger.Logger
}

func NewFlowContext(ctx context.Context, input map[string]any, cl *client.Client, log *logger.Logger) *FlowContext {
	return &FlowContext{
		Ctx:     ctx,
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Client:  cl,
		Log:     log,
	}
}

func (c *FlowContext) ExtractString(key string) string {
	raw, ok := c.Input[key]
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func (c *FlowContext) ExtractTime(key string) (time.Time, error) {
	raw, ok := c.Input[key]
	if !ok {
		return time.Time{}, MissingParamErr(key)
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("param [%v] must be an RFC3339 string", key)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("param [%v] is not a valid RFC3339 time: %w", key, err)
	}
	return t, nil
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
