// Package filereader is the JSON/JSONL file producer task. It reads a file,
// locates the record array (optionally at a dotted path inside the
// document), extracts the configured columns from every record, and
// publishes the row maps and the raw parsed tree into the task's scope.
package filereader

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"github.com/saranshbhandari/TaskManagerUtil/runtime"
)

// CompleteJSONColumn is the pseudo-column that yields the whole record as
// compact JSON text instead of a single field.
const CompleteJSONColumn = "[CompleteJSONRecordAsText]"

// Settings configures one read.
type Settings struct {
	Path      string   `json:"path" validate:"required"`
	JSONL     bool     `json:"jsonl"`
	ArrayPath string   `json:"json_array_path"`
	Columns   []string `json:"columns"`
}

type Task struct {
	l *slog.Logger
}

func New(l *slog.Logger) *Task {
	return &Task{l: l}
}

func (t *Task) Execute(e *runtime.Execution, raw map[string]any) (map[string]any, error) {
	var in Settings
	if err := runtime.InitializeSettings(&in, raw); err != nil {
		return nil, err
	}

	// column paths are split once, not per record
	paths := compilePaths(in.Columns)

	var records []*gabs.Container
	var body *gabs.Container
	var err error

	if in.JSONL {
		records, err = t.readJSONL(in)
	} else {
		body, records, err = t.readJSON(in)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, extractRow(rec, in.Columns, paths))
	}

	t.l.InfoContext(e, "File read complete", "path", in.Path, "records", len(rows))

	outputs := map[string]any{
		"Rows":     rows,
		"RowCount": len(rows),
	}
	if body != nil {
		outputs["Body"] = body
	}
	return outputs, nil
}

// readJSON parses the whole file and locates the record array, optionally
// at a dotted path inside the document. A non-array node at the path is a
// single record; an absent path yields no records.
func (t *Task) readJSON(in Settings) (*gabs.Container, []*gabs.Container, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", in.Path, err)
	}
	body, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", in.Path, err)
	}

	node := body
	if in.ArrayPath != "" {
		node = body.Path(in.ArrayPath)
		if node == nil {
			return body, nil, nil
		}
	}

	return body, elements(node), nil
}

// readJSONL reads one JSON document per line. Blank lines are skipped; a
// line holding an array contributes each element as a record, and the
// array-path setting applies per line.
func (t *Task) readJSONL(in Settings) ([]*gabs.Container, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", in.Path, err)
	}
	defer f.Close()

	var records []*gabs.Container
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		node, err := gabs.ParseJSON([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", in.Path, line, err)
		}
		if in.ArrayPath != "" {
			node = node.Path(in.ArrayPath)
			if node == nil {
				continue
			}
		}
		records = append(records, elements(node)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Path, err)
	}
	return records, nil
}

// elements flattens an array node into its children; any other node is a
// single record.
func elements(node *gabs.Container) []*gabs.Container {
	if _, ok := node.Data().([]any); ok {
		return node.Children()
	}
	return []*gabs.Container{node}
}

func compilePaths(columns []string) map[string][]string {
	paths := make(map[string][]string, len(columns))
	for _, col := range columns {
		if col == CompleteJSONColumn {
			continue
		}
		paths[col] = strings.Split(col, ".")
	}
	return paths
}

// extractRow pulls the configured columns out of one record. With no
// columns configured the record's full value is the row.
func extractRow(rec *gabs.Container, columns []string, paths map[string][]string) map[string]any {
	if len(columns) == 0 {
		if m, ok := rec.Data().(map[string]any); ok {
			return m
		}
		return map[string]any{"value": rec.Data()}
	}

	row := make(map[string]any, len(columns))
	for _, col := range columns {
		if col == CompleteJSONColumn {
			row[col] = rec.String()
			continue
		}
		if child := rec.Search(paths[col]...); child != nil {
			row[col] = child.Data()
		} else {
			row[col] = nil
		}
	}
	return row
}
