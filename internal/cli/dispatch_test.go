package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/remote"
	"todo/internal/storage"
	"todo/internal/storage/memstore"
	"todo/internal/store"
	"todo/internal/testutil"
)

type harness struct {
	t       *testing.T
	dir     string
	backend *memstore.Store
	svc     *testutil.FakeService
	d       *cli.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		dir:     t.TempDir(),
		backend: memstore.New(),
		svc:     testutil.NewFakeService(),
	}
	h.d = cli.NewDispatcher(commands.DefaultRegistry,
		func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
			return h.backend, nil
		},
		func(ctx context.Context, cfg *config.Config) (remote.Service, error) {
			return h.svc, nil
		},
	)
	return h
}

// run dispatches args with --config pointed at the harness directory
// whenever a command is given.
func (h *harness) run(args ...string) (stdout, stderr string, code int) {
	h.t.Helper()
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append(args[:1:1], append([]string{"--config", h.dir}, args[1:]...)...)
	}
	var outBuf, errBuf bytes.Buffer
	code = h.d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	_, stderr, code := h.run("unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: unknowncmd\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	h := newHarness(t)
	_, stderr, code := h.run("--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: --quiet\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run("help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "todo add", "todo edit", "todo ui"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help output to contain %q", want)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	h := newHarness(t)
	stdout, _, code := h.run("version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	h := newHarness(t)
	_, stderr, code := h.run("help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: -unknown\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	h := newHarness(t)
	_, stderr, code := h.run("add", "--due")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: flag needs an argument: -due\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_AddThenList(t *testing.T) {
	h := newHarness(t)

	if _, stderr, code := h.run("add", "Buy", "milk"); code != exitcode.Success {
		t.Fatalf("add failed: %d %s", code, stderr)
	}
	if _, stderr, code := h.run("add", "Walk dog"); code != exitcode.Success {
		t.Fatalf("add failed: %d %s", code, stderr)
	}

	stdout, _, code := h.run("list", "--search", "milk")
	if code != exitcode.Success {
		t.Fatalf("list failed: %d", code)
	}
	testutil.GoldenString(t, "list_search", stdout)
}

func TestDispatcher_EditFlagsFirst(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Buy milk")

	if _, stderr, code := h.run("edit", "--text", "Buy oat milk", "--due", "2099-01-31", "1"); code != exitcode.Success {
		t.Fatalf("edit failed: %d %s", code, stderr)
	}
	stdout, _, _ := h.run("list")
	if want := "   1  [ ] Buy oat milk  (due 2099-01-31)\n"; stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}

	_, stderr, code := h.run("edit", "1", "--text", "Buy soy milk")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if want := "error: unexpected argument: --text (flags go before the task number)\n"; stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

func TestDispatcher_CorruptStore(t *testing.T) {
	h := newHarness(t)
	h.backend.Seed(store.DefaultKey, "{not json")

	_, stderr, code := h.run("list")
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: persisted task list is corrupt") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidSettings(t *testing.T) {
	h := newHarness(t)
	settings := "storage:\n  backend: redis\n"
	if err := os.WriteFile(filepath.Join(h.dir, config.SettingsFile), []byte(settings), 0600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := h.run("list")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "unknown storage backend: redis") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_PushThenPull(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Buy milk")
	h.run("add", "--due", "2099-01-31", "Pay rent")
	h.run("done", "1")

	stdout, stderr, code := h.run("push")
	if code != exitcode.Success {
		t.Fatalf("push failed: %d %s", code, stderr)
	}
	if stdout != "pushed 2 tasks to todo\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	h.run("rm", "2")
	stdout, stderr, code = h.run("pull")
	if code != exitcode.Success {
		t.Fatalf("pull failed: %d %s", code, stderr)
	}
	if stdout != "pulled 2 tasks from todo\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, _, _ = h.run("list")
	testutil.GoldenString(t, "list_after_pull", stdout)
}

func TestDispatcher_PushNeedsCredentials(t *testing.T) {
	dir := t.TempDir()
	d := cli.NewDispatcher(commands.DefaultRegistry,
		func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
			return memstore.New(), nil
		},
		nil,
	)

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"push", "--config", dir}, &stdout, &stderr)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	want := "error: oauth_client.json not found in " + dir + "\n"
	if stderr.String() != want {
		t.Errorf("expected %q, got %q", want, stderr.String())
	}
}

func TestOpenStorageByBackend(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg.Settings.Storage.Backend = config.BackendSQLite
	s, err := cli.OpenStorage(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(filepath.Join(dir, config.SQLiteFile)); err != nil {
		t.Errorf("expected database file: %v", err)
	}

	cfg.Settings.Storage.Backend = config.BackendFile
	f, err := cli.OpenStorage(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	defer f.Close()
}
