// Package storedproc is the stored-procedure producer task. It executes a
// procedure through database/sql, converts every result set into a list of
// ordered row maps, and publishes out-parameters (and their aliases),
// canonical response mirrors, ResultSet and UpdateCount into the task's
// scope.
package storedproc

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"github.com/saranshbhandari/TaskManagerUtil/runtime"
)

// Settings describes one procedure invocation. Exec marks DML procedures
// that report an affected row count instead of result sets; the count is
// published as UpdateCount.
type Settings struct {
	Schema string  `json:"schema"`
	Name   string  `json:"name" validate:"required"`
	Exec   bool    `json:"exec"`
	Params []Param `json:"params"`
}

// Param is one procedure parameter. String values are interpolated through
// the variable store before binding, so earlier task outputs can feed later
// calls. Direction OUT/INOUT parameters are read back from the call's
// result row; Alias publishes the same value under a second name.
type Param struct {
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Alias     string `json:"alias"`
	Value     any    `json:"value"`
}

func (p Param) isOut() bool {
	d := strings.ToUpper(p.Direction)
	return d == "OUT" || d == "INOUT"
}

// Result collects everything a procedure call produced. UpdateCount is the
// driver-reported affected row count of an Exec-mode call; row-returning
// calls leave it zero.
type Result struct {
	OutParams   map[string]any
	ResultSets  [][]map[string]any
	UpdateCount int
}

type Task struct {
	l  *slog.Logger
	db *sql.DB
}

func New(l *slog.Logger, db *sql.DB) *Task {
	return &Task{l: l, db: db}
}

// Open connects to the database with the lib/pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func (t *Task) Execute(e *runtime.Execution, raw map[string]any) (map[string]any, error) {
	var in Settings
	if err := runtime.InitializeSettings(&in, raw); err != nil {
		return nil, err
	}

	args, err := t.bindArgs(e, in.Params)
	if err != nil {
		return nil, err
	}

	query := buildCallSQL(in.Schema, in.Name, in.Params)
	t.l.InfoContext(e, "Calling stored procedure", "procedure", in.Name, "sql", query)

	if in.Exec {
		return t.executeDML(e, in.Name, query, args)
	}

	rows, err := t.db.QueryContext(e, query, args...)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", in.Name, err)
	}
	defer rows.Close()

	result, err := collectResult(rows, in.Params)
	if err != nil {
		return nil, fmt.Errorf("reading results of %s: %w", in.Name, err)
	}

	return publish(result), nil
}

// executeDML runs an Exec-mode call and publishes the affected row count.
// Drivers that report no count (plain CALL on lib/pq) leave it at zero.
func (t *Task) executeDML(e *runtime.Execution, name, query string, args []any) (map[string]any, error) {
	res, err := t.db.ExecContext(e, query, args...)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", name, err)
	}

	count := 0
	if n, err := res.RowsAffected(); err == nil {
		count = int(n)
	}
	return publish(&Result{OutParams: map[string]any{}, UpdateCount: count}), nil
}

// bindArgs resolves IN/INOUT parameter values; string values pass through
// the variable store so placeholders reference earlier task outputs.
func (t *Task) bindArgs(e *runtime.Execution, params []Param) ([]any, error) {
	var args []any
	for _, p := range params {
		if strings.EqualFold(p.Direction, "OUT") {
			continue
		}
		v := p.Value
		if s, ok := v.(string); ok {
			resolved, err := e.Vars.ResolveVariables(s)
			if err != nil {
				return nil, fmt.Errorf("resolving param %s: %w", p.Name, err)
			}
			v = resolved
		}
		args = append(args, v)
	}
	return args, nil
}

// buildCallSQL renders the invocation: CALL for procedures with OUT or
// INOUT parameters, SELECT * FROM for set-returning functions.
func buildCallSQL(schema, name string, params []Param) string {
	qualified := name
	if schema != "" {
		qualified = schema + "." + name
	}

	bindable := 0
	hasOut := false
	for _, p := range params {
		if p.isOut() {
			hasOut = true
		}
		if !strings.EqualFold(p.Direction, "OUT") {
			bindable++
		}
	}

	placeholders := make([]string, bindable)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	argList := strings.Join(placeholders, ", ")

	if hasOut {
		return fmt.Sprintf("CALL %s(%s)", qualified, argList)
	}
	return fmt.Sprintf("SELECT * FROM %s(%s)", qualified, argList)
}

// collectResult drains every result set. When OUT/INOUT parameters are
// declared, the first row of the first set carries their values, matched
// by column name.
func collectResult(rows *sql.Rows, params []Param) (*Result, error) {
	result := &Result{OutParams: make(map[string]any)}

	outByName := make(map[string]Param)
	for _, p := range params {
		if p.isOut() {
			outByName[strings.ToLower(strings.TrimPrefix(p.Name, "@"))] = p
		}
	}

	first := true
	for {
		set, err := rowsToMaps(rows)
		if err != nil {
			return nil, err
		}

		if first && len(outByName) > 0 && len(set) > 0 {
			for col, v := range set[0] {
				if p, ok := outByName[strings.ToLower(col)]; ok {
					result.OutParams[p.Name] = v
					if p.Alias != "" {
						result.OutParams[p.Alias] = v
					}
				}
			}
		} else {
			result.ResultSets = append(result.ResultSets, set)
		}
		first = false

		if !rows.NextResultSet() {
			break
		}
	}

	return result, rows.Err()
}

// rowsToMaps converts the current result set into ordered row maps, one map
// per row keyed by column label.
func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Canonical output names mirrored from conventional out-parameter names.
var canonicalMirrors = map[string]string{
	"P_RESPONSEHEADER": "ResponseHeader",
	"P_RESPONSEBODY":   "ResponseBody",
	"P_RESPONSECODE":   "ResponseCode",
}

// publish shapes a Result into the task's output map: every out-parameter
// under its own name, canonical mirrors when present, the result sets under
// ResultSet, and the summed update count.
func publish(r *Result) map[string]any {
	outputs := make(map[string]any)

	for name, v := range r.OutParams {
		outputs[name] = v
	}

	for name, v := range r.OutParams {
		canonical, ok := canonicalMirrors[strings.ToUpper(strings.TrimPrefix(name, "@"))]
		if ok && v != nil {
			outputs[canonical] = v
		}
	}

	switch len(r.ResultSets) {
	case 0:
	case 1:
		// a single result set is addressable as ResultSet[row][Column]
		outputs["ResultSet"] = toAnySlice(r.ResultSets[0])
	default:
		sets := make([]any, len(r.ResultSets))
		for i, set := range r.ResultSets {
			sets[i] = toAnySlice(set)
		}
		outputs["ResultSet"] = sets
	}

	outputs["UpdateCount"] = r.UpdateCount
	return outputs
}

func toAnySlice(rows []map[string]any) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out
}
