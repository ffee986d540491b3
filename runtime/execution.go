package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

var _ context.Context = &Execution{}

// Execution is the per-run state of a workflow: a unique run ID and the
// variable store shared by all tasks. It implements context.Context so the
// deadline and cancellation of the surrounding run propagate into task
// implementations without a second parameter.
type Execution struct {
	ID   string
	Vars *vars.Store
	ctx  context.Context
}

func (e *Execution) Deadline() (deadline time.Time, ok bool) {
	return e.ctx.Deadline()
}

func (e *Execution) Done() <-chan struct{} {
	return e.ctx.Done()
}

func (e *Execution) Err() error {
	return e.ctx.Err()
}

// Value resolves string keys through the variable store, so a task can read
// "${Task1.ResponseCode}" straight off its context. Non-string keys fall
// through to the embedded context.
func (e *Execution) Value(key any) any {
	k, ok := key.(string)
	if !ok {
		return e.ctx.Value(key)
	}
	v, err := e.Vars.GetValue(k)
	if err != nil {
		return e.ctx.Value(key)
	}
	return v
}

// WithContext returns a shallow copy of the Execution with a new embedded
// context. Use this to apply a per-task timeout without mutating the parent.
// Mirrors the http.Request.WithContext pattern.
func (e *Execution) WithContext(ctx context.Context) *Execution {
	copy := *e
	copy.ctx = ctx
	return &copy
}

// NewExecution creates an execution with a fresh store and publishes global
// properties under the Global scope, resolving ${ENV_VAR:default}
// references in property values first.
func NewExecution(ctx context.Context, policy vars.MissingVariablePolicy, globalProperties map[string]any) *Execution {
	if ctx == nil {
		ctx = context.Background()
	}
	e := &Execution{
		ID:   uuid.New().String(),
		Vars: vars.NewStoreWithPolicy(policy),
		ctx:  ctx,
	}

	for k, v := range globalProperties {
		if err := e.Vars.AddIn("Global", k, resolveEnvVar(v)); err != nil {
			slog.Warn("Skipping global property with invalid name", "key", k, "error", err)
		}
	}

	return e
}

// envVarPattern matches ${VAR} and ${VAR:default} syntax. Environment
// variable names are all-caps with underscores, which keeps them disjoint
// from Scope.Key placeholders.
var envVarPattern = regexp.MustCompile(`^\$\{([A-Z_][A-Z0-9_]*)(:[^}]*)?\}$`)

// resolveEnvVar resolves environment variable references in property values.
func resolveEnvVar(value any) any {
	strValue, ok := value.(string)
	if !ok {
		return value
	}

	matches := envVarPattern.FindStringSubmatch(strValue)
	if matches == nil {
		return value
	}

	varName := matches[1]
	defaultPart := matches[2]

	envValue, exists := os.LookupEnv(varName)
	if exists {
		return envValue
	}

	if defaultPart != "" {
		return strings.TrimPrefix(defaultPart, ":")
	}

	panic(fmt.Sprintf("Required environment variable not set: %s", varName))
}
