package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skydesk-backend/pkg/observability"
)

// Invocation outcomes used for logging and metric dimensions.
const (
	OutcomeSuccess       = "success"
	OutcomeNotFound      = "not_found"
	OutcomeRuleViolation = "rule_violation"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
)

// Response is what a tool handler produces: a body that is marshaled
// verbatim to the caller plus an outcome label for observability.
type Response struct {
	Outcome string
	Body    interface{}
}

// Handler executes a single tool against already-decoded JSON arguments.
// Handlers never return Go errors; every failure mode is a shaped Response.
type Handler func(ctx context.Context, args json.RawMessage) Response

// ToolSpec describes one invocable tool.
type ToolSpec struct {
	Name        string
	Description string
	ReadOnly    bool
	Idempotent  bool
	Handler     Handler
}

// ToolInfo is the listable subset of a ToolSpec.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ReadOnly    bool   `json:"read_only"`
	Idempotent  bool   `json:"idempotent"`
}

// Registry holds the tool catalog and dispatches invocations.
type Registry struct {
	specs   map[string]ToolSpec
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewRegistry(logger *zap.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{
		specs:   make(map[string]ToolSpec),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds a tool to the catalog. Names must be unique.
func (r *Registry) Register(spec ToolSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool spec has empty name")
	}
	if spec.Handler == nil {
		return fmt.Errorf("tool %s has nil handler", spec.Name)
	}
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	r.specs[spec.Name] = spec
	return nil
}

// RegisterAll registers every spec, stopping at the first failure.
func (r *Registry) RegisterAll(specs []ToolSpec) error {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// List returns the catalog sorted by name.
func (r *Registry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.specs))
	for _, spec := range r.specs {
		infos = append(infos, ToolInfo{
			Name:        spec.Name,
			Description: spec.Description,
			ReadOnly:    spec.ReadOnly,
			Idempotent:  spec.Idempotent,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Invoke runs the named tool and returns its marshaled body. An error is
// returned only for registry-level failures: unknown tool or a body that
// cannot be marshaled. Tool-level failures come back as shaped payloads.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	invocationID := uuid.New().String()
	start := time.Now()

	resp := spec.Handler(ctx, args)
	elapsed := time.Since(start)

	r.logger.Info("tool invoked",
		zap.String("tool", name),
		zap.String("invocation_id", invocationID),
		zap.String("outcome", resp.Outcome),
		zap.Duration("duration", elapsed))
	r.metrics.RecordToolInvocation(ctx, name, resp.Outcome, elapsed)

	payload, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s response: %w", name, err)
	}
	return payload, nil
}
