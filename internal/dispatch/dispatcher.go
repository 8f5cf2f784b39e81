// Package dispatch validates and routes agent tool invocations to
// registered tool implementations against a single resolved backend.
package dispatch

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/quarry/internal/core/domain"
	"github.com/custodia-labs/quarry/internal/core/ports/driven"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/registry"
)

// Dispatcher routes named tool invocations to registered tools.
//
// The registry and backend are shared, read-only after construction,
// across all concurrent invocations; the dispatcher itself holds no
// per-request state. Backends that are not safe for concurrent use must
// serialise internally.
type Dispatcher struct {
	tools   *registry.Registry[driven.Tool]
	backend driven.Backend
	enabled map[string]struct{}
	schemas map[string]*jsonschema.Resolved
}

// New creates a dispatcher over the tool registry and the backend resolved
// at startup. When enabledTools is non-empty it acts as an allow-list:
// tools outside it behave as unknown. Tool input schemas are resolved once
// here, not per invocation.
func New(tools *registry.Registry[driven.Tool], backend driven.Backend, enabledTools []string) (*Dispatcher, error) {
	d := &Dispatcher{
		tools:   tools,
		backend: backend,
		schemas: make(map[string]*jsonschema.Resolved),
	}

	if len(enabledTools) > 0 {
		d.enabled = make(map[string]struct{}, len(enabledTools))
		for _, name := range enabledTools {
			d.enabled[name] = struct{}{}
		}
	}

	for _, name := range tools.Keys() {
		if !d.isEnabled(name) {
			logger.Info("Skipping disabled tool: %s", name)
			continue
		}
		tool, err := tools.Resolve(name)
		if err != nil {
			return nil, err
		}
		resolved, err := tool.InputSchema().Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: tool %q schema: %v", domain.ErrConfiguration, name, err)
		}
		d.schemas[name] = resolved
	}

	return d, nil
}

// Tools returns the dispatchable tools in name order.
func (d *Dispatcher) Tools() []driven.Tool {
	result := make([]driven.Tool, 0, len(d.schemas))
	for _, name := range d.tools.Keys() {
		if _, ok := d.schemas[name]; !ok {
			continue
		}
		tool, err := d.tools.Resolve(name)
		if err != nil {
			continue
		}
		result = append(result, tool)
	}
	return result
}

// Backend returns the backend instance shared by all invocations.
func (d *Dispatcher) Backend() driven.Backend {
	return d.backend
}

// Dispatch resolves, validates and executes one tool invocation.
//
// Error classification is part of the contract: unknown or disabled names
// fail with domain.ErrUnknownTool, schema violations with
// domain.ErrInvalidArguments before any backend call, and failures inside
// a well-formed execution with domain.ErrBackendFailure.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if !d.isEnabled(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}
	tool, err := d.tools.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	schema, ok := d.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}
	if err := schema.Validate(args); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArguments, err)
	}

	logger.Debug("Dispatching tool %s", name)
	result, err := tool.Execute(ctx, d.backend, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendFailure, name, err)
	}
	return result, nil
}

func (d *Dispatcher) isEnabled(name string) bool {
	if d.enabled == nil {
		return true
	}
	_, ok := d.enabled[name]
	return ok
}
