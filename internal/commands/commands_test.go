package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"todo/internal/backend/jsonfile"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// storePath returns a task file path in a fresh temp dir.
func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "todo.json")
}

// seed writes tasks to the task file at path.
func seed(t *testing.T, path string, tasks ...service.Task) {
	t.Helper()
	if err := jsonfile.New(path, nil).Save(context.Background(), tasks); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// stored loads the tasks currently in the task file at path.
func stored(t *testing.T, path string) []service.Task {
	t.Helper()
	tasks, err := jsonfile.New(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return tasks
}

// runCommand is a helper to run a command against the task file at path.
func runCommand(t *testing.T, cmd commands.Command, path string, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	svc := service.New(jsonfile.New(path, nil), nil)
	return runWithService(t, cmd, svc, path, args, quiet)
}

func runWithService(t *testing.T, cmd commands.Command, svc service.Service, path string, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		StorePath: path,
		Quiet:     quiet,
	}

	code = cmd.Run(context.Background(), cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runWithService(t, cmd, nil, "", nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand_ListsEveryCommand(t *testing.T) {
	cmd, ok := commands.DefaultRegistry.Find("help")
	if !ok {
		t.Fatal("help command not registered")
	}

	stdout, stderr, code := runWithService(t, cmd, nil, "", nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "Usage:\n") {
		t.Errorf("help output should start with 'Usage:', got %q", stdout)
	}
	for _, want := range []string{
		"todo add <title...>",
		"todo list",
		"todo done <id>",
		"todo delete <id>",
		"(alias: rm)",
		"todo export",
		"--file <path>",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q, got:\n%s", want, stdout)
		}
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	path := storePath(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, path, []string{"buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "✓ Added task #1: buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	want := []service.Task{{ID: 1, Title: "buy milk", Completed: false}}
	if got := stored(t, path); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	path := storePath(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, path, []string{"buy", "milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
	if len(stored(t, path)) != 1 {
		t.Error("expected task to be saved in quiet mode")
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	path := storePath(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, path, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: title required\n" {
		t.Errorf("expected title required error, got %q", stderr)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected task file not to be created")
	}
}

func TestAddCommand_EmptyTitleAccepted(t *testing.T) {
	path := storePath(t)

	_, _, code := runCommand(t, &commands.AddCmd{}, path, []string{""}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	tasks := stored(t, path)
	if len(tasks) != 1 || tasks[0].Title != "" {
		t.Errorf("expected one task with empty title, got %+v", tasks)
	}
}

func TestAddCommand_TitleKeptVerbatim(t *testing.T) {
	path := storePath(t)
	args := []string{" 任务", "<script>", "&", "'quote'", "\"double\"", "🎉 "}

	_, _, code := runCommand(t, &commands.AddCmd{}, path, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := strings.Join(args, " ")
	if got := stored(t, path)[0].Title; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAddCommand_SequentialIDs(t *testing.T) {
	path := storePath(t)

	for _, title := range []string{"a", "b", "c"} {
		if _, _, code := runCommand(t, &commands.AddCmd{}, path, []string{title}, true); code != exitcode.Success {
			t.Fatalf("add %s: exit code %d", title, code)
		}
	}

	for i, task := range stored(t, path) {
		if task.ID != i+1 {
			t.Errorf("expected id %d, got %d", i+1, task.ID)
		}
	}
}

func TestAddCommand_CorruptStore(t *testing.T) {
	path := storePath(t)
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, path, []string{"x"}, false)

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: corrupt task file: "+path) {
		t.Errorf("unexpected stderr %q", stderr)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "not json" {
		t.Error("expected corrupt file to be left untouched")
	}
}

func TestAddCommand_SaveFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SaveErr = &service.IOError{Op: "write", Path: "todo.json", Err: errors.New("disk full")}
	svc := service.New(store, nil)

	stdout, stderr, code := runWithService(t, &commands.AddCmd{}, svc, "todo.json", []string{"x"}, false)

	if code != exitcode.IOError {
		t.Errorf("expected exit code %d, got %d", exitcode.IOError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: write task file todo.json: disk full\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for list command
func TestListCommand_Empty(t *testing.T) {
	path := storePath(t)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, path, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "No tasks\n" {
		t.Errorf("expected %q, got %q", "No tasks\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	path := storePath(t)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, path, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_WithTasks(t *testing.T) {
	path := storePath(t)
	seed(t, path,
		service.Task{ID: 1, Title: "buy milk", Completed: true},
		service.Task{ID: 3, Title: "walk the dog"},
		service.Task{ID: 2, Title: "任务B 🎉"},
	)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, path, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_mixed", stdout)
}

func TestListCommand_DoesNotWrite(t *testing.T) {
	path := storePath(t)
	if err := os.WriteFile(path, []byte(`[{"id":1,"title":"a","completed":false}]`), 0644); err != nil {
		t.Fatal(err)
	}

	runCommand(t, &commands.ListCmd{}, path, nil, false)

	data, _ := os.ReadFile(path)
	if string(data) != `[{"id":1,"title":"a","completed":false}]` {
		t.Errorf("expected file untouched, got %q", data)
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	path := storePath(t)
	seed(t, path, service.Task{ID: 1, Title: "buy milk"}, service.Task{ID: 2, Title: "walk dog"})

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, path, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "✓ Completed task #2: walk dog\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	tasks := stored(t, path)
	if tasks[0].Completed || !tasks[1].Completed {
		t.Errorf("expected only task 2 completed, got %+v", tasks)
	}
}

func TestDoneCommand_AlreadyCompleted(t *testing.T) {
	path := storePath(t)
	seed(t, path, service.Task{ID: 1, Title: "buy milk", Completed: true})

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, path, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "✓ Completed task #1: buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !stored(t, path)[0].Completed {
		t.Error("expected task to stay completed")
	}
}

func TestDoneCommand_NotFound(t *testing.T) {
	path := storePath(t)
	seed(t, path, service.Task{ID: 1, Title: "buy milk"})
	before, _ := os.ReadFile(path)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, path, []string{"999"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "✗ Task #999 not found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Errorf("expected file unchanged\nbefore: %s\nafter: %s", before, after)
	}
}

func TestDoneCommand_NotFoundEmptyStore(t *testing.T) {
	path := storePath(t)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, path, []string{"1"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Not-found is reported even in quiet mode
	if stdout != "✗ Task #1 not found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no task file to be created")
	}
}

func TestDoneCommand_MissingID(t *testing.T) {
	path := storePath(t)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, path, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_InvalidID(t *testing.T) {
	path := storePath(t)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, path, []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task id: abc\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for delete command
func TestDeleteCommand_Success(t *testing.T) {
	path := storePath(t)
	seed(t, path,
		service.Task{ID: 1, Title: "a"},
		service.Task{ID: 2, Title: "b", Completed: true},
		service.Task{ID: 3, Title: "c"},
	)

	stdout, stderr, code := runCommand(t, &commands.DeleteCmd{}, path, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "✓ Deleted task #2: b\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	want := []service.Task{{ID: 1, Title: "a"}, {ID: 3, Title: "c"}}
	if got := stored(t, path); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDeleteCommand_NotFound(t *testing.T) {
	path := storePath(t)
	seed(t, path, service.Task{ID: 1, Title: "a"})
	before, _ := os.ReadFile(path)

	stdout, _, code := runCommand(t, &commands.DeleteCmd{}, path, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "✗ Task #2 not found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("expected file unchanged")
	}
}

func TestDeleteCommand_InvalidID(t *testing.T) {
	path := storePath(t)

	_, stderr, code := runCommand(t, &commands.DeleteCmd{}, path, []string{"1.5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task id: 1.5\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for export command
func TestExportCommand_DefaultJSONToStdout(t *testing.T) {
	path := storePath(t)
	seed(t, path, service.Task{ID: 1, Title: "a", Completed: true})

	cmd := &commands.ExportCmd{}
	stdout, stderr, code := runCommand(t, cmd, path, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "[\n  {\n    \"id\": 1,\n    \"title\": \"a\",\n    \"completed\": true\n  }\n]\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestExportCommand_CSVToFile(t *testing.T) {
	path := storePath(t)
	seed(t, path, service.Task{ID: 1, Title: "a"}, service.Task{ID: 2, Title: "b", Completed: true})
	outPath := filepath.Join(t.TempDir(), "tasks.csv")

	cmd := &commands.ExportCmd{}
	cmd.SetFormat("csv")
	cmd.SetOutput(outPath)
	stdout, stderr, code := runCommand(t, cmd, path, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "✓ Exported 2 tasks to "+outPath+"\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "id,title,completed\n1,a,false\n2,b,true\n" {
		t.Errorf("unexpected export %q", data)
	}
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	path := storePath(t)

	cmd := &commands.ExportCmd{}
	cmd.SetFormat("xml")
	stdout, stderr, code := runCommand(t, cmd, path, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: unknown export format: xml\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExportCommand_UnwritableOutput(t *testing.T) {
	path := storePath(t)
	outPath := filepath.Join(t.TempDir(), "missing", "tasks.json")

	cmd := &commands.ExportCmd{}
	cmd.SetOutput(outPath)
	_, stderr, code := runCommand(t, cmd, path, nil, false)

	if code != exitcode.IOError {
		t.Errorf("expected exit code %d, got %d", exitcode.IOError, code)
	}
	if !strings.HasPrefix(stderr, "error: write export file: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Integration: the full add/done/delete workflow against one task file
func TestWorkflow(t *testing.T) {
	path := storePath(t)

	for _, title := range []string{"A", "B", "C"} {
		runCommand(t, &commands.AddCmd{}, path, []string{title}, true)
	}
	runCommand(t, &commands.DoneCmd{}, path, []string{"1"}, true)
	runCommand(t, &commands.DeleteCmd{}, path, []string{"2"}, true)

	want := []service.Task{
		{ID: 1, Title: "A", Completed: true},
		{ID: 3, Title: "C", Completed: false},
	}
	if got := stored(t, path); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
