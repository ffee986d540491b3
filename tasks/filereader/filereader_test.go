package filereader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/saranshbhandari/TaskManagerUtil/runtime"
	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func execute(t *testing.T, settings map[string]any) (*runtime.Execution, map[string]any) {
	t.Helper()
	e := runtime.NewExecution(context.Background(), vars.KeepAsIs, nil)
	task := New(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	outputs, err := task.Execute(e, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e, outputs
}

func TestTask_PlainJSONArray(t *testing.T) {
	path := writeFile(t, "data.json", `[{"id":1,"user":{"name":"alice"}},{"id":2,"user":{"name":"bob"}}]`)

	e, outputs := execute(t, map[string]any{
		"path":    path,
		"columns": []string{"id", "user.name"},
	})

	if outputs["RowCount"] != 2 {
		t.Fatalf("RowCount = %v, want 2", outputs["RowCount"])
	}

	for k, v := range outputs {
		e.Vars.AddIn("Task1", k, v)
	}
	v, err := e.Vars.GetValue("${Task1.Rows[1][user.name]}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "bob" {
		t.Errorf("got %v, want bob", v)
	}
}

func TestTask_ArrayPath(t *testing.T) {
	path := writeFile(t, "data.json", `{"payload":{"items":[{"sku":"A"},{"sku":"B"}]},"meta":1}`)

	e, outputs := execute(t, map[string]any{
		"path":            path,
		"json_array_path": "payload.items",
		"columns":         []string{"sku"},
	})

	if outputs["RowCount"] != 2 {
		t.Fatalf("RowCount = %v, want 2", outputs["RowCount"])
	}

	// the raw tree is stored too, navigable from the top
	for k, v := range outputs {
		e.Vars.AddIn("Task1", k, v)
	}
	v, _ := e.Vars.GetValue("${Task1.Body.meta}")
	if vars.Stringify(v) != "1" {
		t.Errorf("Body.meta got %v, want 1", v)
	}
}

func TestTask_JSONL(t *testing.T) {
	path := writeFile(t, "data.jsonl", `{"id":1}

{"id":2}
[{"id":3},{"id":4}]
`)

	_, outputs := execute(t, map[string]any{
		"path":  path,
		"jsonl": true,
	})

	if outputs["RowCount"] != 4 {
		t.Errorf("RowCount = %v, want 4", outputs["RowCount"])
	}
}

func TestTask_CompleteJSONColumn(t *testing.T) {
	path := writeFile(t, "data.json", `[{"id":1}]`)

	_, outputs := execute(t, map[string]any{
		"path":    path,
		"columns": []string{"id", CompleteJSONColumn},
	})

	rows := outputs["Rows"].([]any)
	row := rows[0].(map[string]any)
	if row[CompleteJSONColumn] != `{"id":1}` {
		t.Errorf("complete record = %v", row[CompleteJSONColumn])
	}
}

func TestTask_MissingColumnIsNil(t *testing.T) {
	path := writeFile(t, "data.json", `[{"id":1}]`)

	_, outputs := execute(t, map[string]any{
		"path":    path,
		"columns": []string{"absent.field"},
	})

	rows := outputs["Rows"].([]any)
	row := rows[0].(map[string]any)
	if row["absent.field"] != nil {
		t.Errorf("absent column = %v, want nil", row["absent.field"])
	}
}
