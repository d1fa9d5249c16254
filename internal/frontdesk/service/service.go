package service

import (
	"context"
	"fmt"

	"gearpool/internal/frontdesk/core"
	"gearpool/internal/frontdesk/flows"
	"gearpool/pkg/client"
	"gearpool/pkg/logger"
)

// FrontDeskService runs named multi-service flows on behalf of the desk UI.
type FrontDeskService struct {
	engine *core.Engine
	client *client.Client
	log    *logger.Logger
}

func NewFrontDeskService(cl *client.Client, log *logger.Logger) *FrontDeskService {
	return &FrontDeskService{
		engine: core.NewEngine(flows.All()...),
		client: cl,
		log:    log,
	}
}

func (s *FrontDeskService) ExecuteFlow(ctx context.Context, flowName string, input map[string]any) (map[string]any, error) {
	flowCtx := core.NewFlowContext(ctx, input, s.client, s.log)
	if err := s.engine.Run(flowName, flowCtx); err != nil {
		return nil, fmt.Errorf("flow execution failed: %w", err)
	}
	return flowCtx.Output, nil
}

func (s *FrontDeskService) AvailableFlows() []string {
	return s.engine.Flows()
}
