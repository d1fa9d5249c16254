package core

import "fmt"

type Step struct {
	Name    string
	Execute func(ctx *FlowContext) error
}

func NewStep(name string, execute func(ctx *FlowContext) error) Step {
	return Step{
		Name:    name,
		Execute: execute,
	}
}

// Flow is a named ordered pipeline of steps sharing one FlowContext.
type Flow struct {
	Name  string
	Steps []Step
}

type Engine struct {
	flows map[string]Flow
}

func NewEngine(flows ...Flow) *Engine {
	m := map[string]Flow{}
	for _, f := range flows {
		m[f.Name] = f
	}
	return &Engine{flows: m}
}

func (e *Engine) Flows() []string {
	names := make([]string, 0, len(e.flows))
	for name := range e.flows {
		names = append(names, name)
	}
	return names
}

// Run executes the flow's steps in order, stopping at the first failure.
// Steps check ctx.Ctx themselves when they make remote calls.
func (e *Engine) Run(flowName string, ctx *FlowContext) error {
	f, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("unsupported flow: %v", flowName)
	}
	for _, step := range f.Steps {
		if err := ctx.Ctx.Err(); err != nil {
			return fmt.Errorf("%s step skipped, flow cancelled: %w", step.Name, err)
		}
		if err := step.Execute(ctx); err != nil {
			return fmt.Errorf("%s step failed: %w", step.Name, err)
		}
	}
	return nil
}
