package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/td/internal/config"
	"github.com/steveyegge/td/internal/types"
)

// testNow is the clock every test invocation sees.
var testNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "td-cmd-test-*")
	if err != nil {
		panic(err)
	}
	for k, val := range map[string]string{
		"HOME":            home,
		"USERPROFILE":     home,
		"XDG_CONFIG_HOME": filepath.Join(home, "config"),
		"XDG_DATA_HOME":   filepath.Join(home, "data"),
		"NO_COLOR":        "1",
		"TD_NO_PAGER":     "1",
	} {
		_ = os.Setenv(k, val)
	}
	for _, k := range []string{"TD_CONFIG", "TD_CONFIG_DIR", "TD_DATA_DIR", "TD_JSON", "TD_DEBUG", "TD_OTEL_ENABLED", "TD_STORAGE_BACKEND", "TD_LIST_FILTER"} {
		_ = os.Unsetenv(k)
	}
	nowFunc = func() time.Time { return testNow }

	code := m.Run()
	_ = os.RemoveAll(home)
	os.Exit(code)
}

type result struct {
	stdout string
	stderr string
	code   int
}

// tdEnv points config and storage at a fresh directory for one test.
func tdEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TD_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("TD_DATA_DIR", filepath.Join(dir, "data"))
	t.Cleanup(config.ResetForTesting)
	return dir
}

func runTD(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

func mustRunTD(t *testing.T, args ...string) result {
	t.Helper()
	r := runTD(t, args...)
	require.Equalf(t, 0, r.code, "td %s\nstdout:\n%s\nstderr:\n%s", strings.Join(args, " "), r.stdout, r.stderr)
	return r
}

func listJSON(t *testing.T, args ...string) []taskJSON {
	t.Helper()
	r := mustRunTD(t, append([]string{"list", "--json"}, args...)...)
	var got []taskJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got), r.stdout)
	return got
}

func texts(entries []taskJSON) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func TestAddAndList(t *testing.T) {
	tdEnv(t)

	r := mustRunTD(t, "add", "Buy", "milk", "-c", "Personal", "-p", "Low")
	assert.Equal(t, "✓ Added #1: Buy milk\n", r.stdout)
	mustRunTD(t, "add", "Fix bug", "--category", "work", "--priority", "HIGH", "--due", "tomorrow")

	got := listJSON(t)
	require.Len(t, got, 2)
	assert.Equal(t, taskJSON{Position: 1, Task: types.Task{
		Text:     "Buy milk",
		Category: types.CategoryPersonal,
		Priority: types.PriorityLow,
	}}, got[0])
	assert.Equal(t, 2, got[1].Position)
	assert.Equal(t, types.CategoryWork, got[1].Category)
	assert.Equal(t, types.PriorityHigh, got[1].Priority)
	assert.Equal(t, "2025-01-16", got[1].DueDate)
}

func TestAddDefaults(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Plain task")

	got := listJSON(t)
	require.Len(t, got, 1)
	assert.Equal(t, types.CategoryWork, got[0].Category)
	assert.Equal(t, types.PriorityMedium, got[0].Priority)
	assert.False(t, got[0].Completed)
}

func TestAddEmptyTextWarns(t *testing.T) {
	tdEnv(t)

	r := mustRunTD(t, "add", "   ")
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "Warning: task text is empty")
	assert.Empty(t, listJSON(t))

	r = mustRunTD(t, "add", "--json")
	assert.JSONEq(t, `{"added": false}`, r.stdout)
}

func TestAddInvalidFlags(t *testing.T) {
	tdEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"category", []string{"add", "x", "-c", "Hobby"}, "Error: "},
		{"priority", []string{"add", "x", "-p", "Critical"}, "Error: "},
		{"due", []string{"add", "x", "-d", "gibberish"}, "Error: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runTD(t, tt.args...)
			assert.Equal(t, 1, r.code)
			assert.Contains(t, r.stderr, tt.want)
		})
	}
	assert.Empty(t, listJSON(t))
}

func TestDoneToggles(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Buy milk")
	mustRunTD(t, "add", "Fix bug")

	r := mustRunTD(t, "done", "1")
	assert.Equal(t, "✓ Completed #1: Buy milk\n", r.stdout)
	assert.Equal(t, []string{"Fix bug"}, texts(listJSON(t, "--filter", "active")))
	assert.Equal(t, []string{"Buy milk"}, texts(listJSON(t, "--filter", "Completed")))

	r = mustRunTD(t, "done", "#1")
	assert.Equal(t, "○ Reopened #1: Buy milk\n", r.stdout)
	assert.Empty(t, listJSON(t, "--filter", "Completed"))
}

func TestRemove(t *testing.T) {
	tdEnv(t)
	for _, text := range []string{"one", "two", "three", "four"} {
		mustRunTD(t, "add", text)
	}

	r := mustRunTD(t, "rm", "3", "1", "3")
	assert.Equal(t, "✗ Removed #1: one\n✗ Removed #3: three\n", r.stdout)
	assert.Equal(t, []string{"two", "four"}, texts(listJSON(t)))
}

func TestInvalidPosition(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "only")

	for _, args := range [][]string{{"rm", "5"}, {"done", "0"}, {"edit", "2"}, {"show", "9"}} {
		r := runTD(t, args...)
		assert.Equal(t, 1, r.code, args)
		assert.Contains(t, r.stderr, "Error: no task at that position")
		assert.Contains(t, r.stderr, "Hint: run 'td list' to see positions")
	}

	r := runTD(t, "rm", "first")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, `invalid position "first"`)
	assert.Equal(t, []string{"only"}, texts(listJSON(t)))
}

func TestEditMovesTaskToDraft(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Write report", "-p", "Low", "-c", "Urgent")
	mustRunTD(t, "add", "Call mom", "-c", "Personal")

	r := mustRunTD(t, "edit", "1")
	assert.Contains(t, r.stdout, "Moved #1 to the draft: Write report")
	assert.Equal(t, []string{"Call mom"}, texts(listJSON(t)))

	r = mustRunTD(t, "draft")
	assert.Contains(t, r.stdout, "Text:     Write report")
	assert.Contains(t, r.stdout, "Category: Urgent")
	assert.Contains(t, r.stdout, "Priority: Low")

	// Re-adding only changes what the flags set.
	mustRunTD(t, "add", "-p", "High")
	got := listJSON(t)
	require.Len(t, got, 2)
	assert.Equal(t, "Write report", got[1].Text)
	assert.Equal(t, types.CategoryUrgent, got[1].Category)
	assert.Equal(t, types.PriorityHigh, got[1].Priority)

	r = mustRunTD(t, "draft")
	assert.Contains(t, r.stdout, "Category: Work")
	assert.Contains(t, r.stdout, "Priority: Medium")
}

func TestEditWithFlagsReAdds(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Write report", "-n", "first draft")
	mustRunTD(t, "add", "Call mom")

	r := mustRunTD(t, "edit", "1", "--text", "Write final report", "-d", "2025-02-01")
	assert.Equal(t, "✓ Updated #1 -> #2: Write final report\n", r.stdout)

	got := listJSON(t)
	require.Len(t, got, 2)
	assert.Equal(t, "Call mom", got[0].Text)
	assert.Equal(t, "Write final report", got[1].Text)
	assert.Equal(t, "2025-02-01", got[1].DueDate)
	assert.Equal(t, "first draft", got[1].Notes)
}

func TestEditWithBadFlagChangesNothing(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Write report")
	mustRunTD(t, "add", "Call mom")

	tests := []struct {
		name string
		args []string
	}{
		{"priority", []string{"edit", "1", "-p", "Hgh"}},
		{"category", []string{"edit", "1", "--text", "Write it", "-c", "Hobby"}},
		{"due", []string{"edit", "1", "-d", "gibberish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runTD(t, tt.args...)
			assert.Equal(t, 1, r.code)
			assert.Contains(t, r.stderr, "Hint: task #1 is unchanged")
			assert.Equal(t, []string{"Write report", "Call mom"}, texts(listJSON(t)))

			r = mustRunTD(t, "draft")
			assert.Contains(t, r.stdout, "(no text)")
		})
	}

	r := mustRunTD(t, "edit", "2", "--text", "  ")
	assert.Contains(t, r.stderr, "Warning: task text is empty; task #2 is unchanged")
	assert.Equal(t, []string{"Write report", "Call mom"}, texts(listJSON(t)))
}

func TestDraftClear(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Keep me")
	mustRunTD(t, "edit", "1")

	r := mustRunTD(t, "draft", "clear")
	assert.Equal(t, "Draft cleared (discarded \"Keep me\").\n", r.stdout)
	r = mustRunTD(t, "draft", "clear")
	assert.Equal(t, "Draft cleared.\n", r.stdout)
	assert.Empty(t, listJSON(t))
}

func TestListSearchAndSort(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Buy milk", "-p", "Low")
	mustRunTD(t, "add", "Fix bug", "-p", "High")
	mustRunTD(t, "add", "Buy bread")
	mustRunTD(t, "add", "Ship it", "-p", "High")

	assert.Equal(t, []string{"Buy milk", "Buy bread"}, texts(listJSON(t, "-s", "BUY")))
	assert.Equal(t, []string{"Fix bug", "Ship it", "Buy bread", "Buy milk"}, texts(listJSON(t, "--sort-priority")))

	got := listJSON(t, "-P", "-s", "buy")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Position)
	assert.Equal(t, 1, got[1].Position)
}

func TestListText(t *testing.T) {
	tdEnv(t)

	r := mustRunTD(t, "list")
	assert.Equal(t, "ALL (0 of 0)\nNo tasks yet. Add one with 'td add'.\n", r.stdout)

	mustRunTD(t, "add", "Buy milk", "-c", "Personal", "-p", "Low", "-d", "2025-01-10", "-n", "2%")
	mustRunTD(t, "add", "Fix bug")

	r = mustRunTD(t, "list", "--filter", "personal")
	assert.Equal(t, "PERSONAL (1 of 2)\n  1. [ ] Buy milk  Personal Low  due 2025-01-10 (overdue)  +notes\n", r.stdout)

	r = mustRunTD(t, "list", "-s", "nothing")
	assert.Equal(t, "ALL (0 of 2)\nmatching \"nothing\"\nNo tasks match.\n", r.stdout)

	r = runTD(t, "list", "--filter", "Someday")
	assert.Equal(t, 1, r.code)
}

func TestListFilterFromConfig(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "a")
	mustRunTD(t, "add", "b")
	mustRunTD(t, "done", "1")

	mustRunTD(t, "config", "set", "list.filter", "Active")
	assert.Equal(t, []string{"b"}, texts(listJSON(t)))
	// an explicit flag beats config
	assert.Equal(t, []string{"a", "b"}, texts(listJSON(t, "--filter", "All")))

	t.Setenv("TD_LIST_FILTER", "Completed")
	assert.Equal(t, []string{"a"}, texts(listJSON(t)))
}

func TestShow(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "Buy milk", "-c", "Personal", "-d", "2025-01-10", "-n", "two litres")

	r := mustRunTD(t, "show", "1")
	assert.Contains(t, r.stdout, "#1 Buy milk")
	assert.Contains(t, r.stdout, "Personal")
	assert.Contains(t, r.stdout, "2025-01-10 (overdue)")
	assert.Contains(t, r.stdout, "NOTES")
	assert.Contains(t, r.stdout, "two litres")

	r = mustRunTD(t, "show", "1", "--json")
	var got taskJSON
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, 1, got.Position)
	assert.Equal(t, "two litres", got.Notes)
}

func TestStats(t *testing.T) {
	tdEnv(t)
	mustRunTD(t, "add", "a", "-c", "Personal", "-d", "2025-01-01")
	mustRunTD(t, "add", "b", "-p", "High")
	mustRunTD(t, "done", "2")

	r := mustRunTD(t, "stats", "--json")
	var s types.Stats
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &s))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 1, s.ByCategory[types.CategoryPersonal])
	assert.Equal(t, 1, s.ByPriority[types.PriorityHigh])

	r = mustRunTD(t, "stats")
	assert.Contains(t, r.stdout, "  Total:     2\n")
	assert.Contains(t, r.stdout, "BY CATEGORY")
	assert.Contains(t, r.stdout, "  Urgent:   0\n")
}

func TestExportImport(t *testing.T) {
	dir := tdEnv(t)
	mustRunTD(t, "add", "Buy milk", "-c", "Personal")
	mustRunTD(t, "add", "Fix bug", "-p", "High")
	mustRunTD(t, "done", "1")

	for _, name := range []string{"tasks.json", "tasks.csv", "tasks.yaml", "tasks.toml", "tasks.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			r := mustRunTD(t, "export", "-o", path)
			assert.Contains(t, r.stdout, "Exported 2 tasks to "+path)

			r = mustRunTD(t, "import", path, "--append")
			assert.Contains(t, r.stdout, "Imported 2 tasks (4 total)")
			got := listJSON(t)
			require.Len(t, got, 4)
			assert.Equal(t, got[0].Task, got[2].Task)
			assert.Equal(t, got[1].Task, got[3].Task)

			mustRunTD(t, "import", path)
			assert.Len(t, listJSON(t), 2)
		})
	}
}

func TestExportToStdoutAndPDF(t *testing.T) {
	dir := tdEnv(t)
	mustRunTD(t, "add", "Buy milk")
	mustRunTD(t, "add", "Fix bug")
	mustRunTD(t, "done", "2")

	r := mustRunTD(t, "export", "--filter", "Active")
	var got []types.Task
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got), r.stdout)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Text)

	pdf := filepath.Join(dir, "tasks.pdf")
	mustRunTD(t, "export", "-o", pdf)
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	r = runTD(t, "import", pdf)
	assert.Equal(t, 1, r.code)
	assert.Len(t, listJSON(t), 2)
}

func TestImportBadFileKeepsList(t *testing.T) {
	dir := tdEnv(t)
	mustRunTD(t, "add", "keep")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))

	r := runTD(t, "import", bad)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "Error: ")
	assert.Equal(t, []string{"keep"}, texts(listJSON(t)))
}

func TestMalformedStorageResets(t *testing.T) {
	dir := tdEnv(t)
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(data, "storage.json"), []byte(`{"todos": "[{broken"}`), 0o600))

	r := mustRunTD(t, "list")
	assert.Contains(t, r.stderr, "Warning: stored task list is malformed")
	assert.Contains(t, r.stdout, "No tasks yet")

	mustRunTD(t, "add", "fresh start")
	assert.Equal(t, []string{"fresh start"}, texts(listJSON(t)))
}

func TestTruncatedStorageFileRecovers(t *testing.T) {
	dir := tdEnv(t)
	data := filepath.Join(dir, "data")
	path := filepath.Join(data, "storage.json")
	require.NoError(t, os.MkdirAll(data, 0o750))
	require.NoError(t, os.WriteFile(path, []byte(`{"todos": "[]", "darkMo`), 0o600))

	r := mustRunTD(t, "list")
	assert.Contains(t, r.stderr, "Warning: ")
	assert.Contains(t, r.stderr, "moved it to "+path+".corrupt-")
	assert.Contains(t, r.stdout, "No tasks yet")

	aside, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	assert.Len(t, aside, 1)

	mustRunTD(t, "add", "fresh start")
	mustRunTD(t, "dark-mode", "on")
	assert.Equal(t, []string{"fresh start"}, texts(listJSON(t)))
	r = mustRunTD(t, "dark-mode")
	assert.Equal(t, "Dark mode: on\n", r.stdout)
	assert.NotContains(t, r.stderr, "Warning: ")
}

func TestDarkMode(t *testing.T) {
	dir := tdEnv(t)

	r := mustRunTD(t, "dark-mode")
	assert.Equal(t, "Dark mode: off\n", r.stdout)
	r = mustRunTD(t, "dark-mode", "toggle")
	assert.Equal(t, "Dark mode: on\n", r.stdout)
	r = mustRunTD(t, "dark-mode", "--json")
	assert.JSONEq(t, `{"darkMode": true}`, r.stdout)

	raw, err := os.ReadFile(filepath.Join(dir, "data", "storage.json"))
	require.NoError(t, err)
	var stored map[string]string
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "true", stored["darkMode"])

	mustRunTD(t, "dark-mode", "off")
	r = runTD(t, "dark-mode", "dim")
	assert.Equal(t, 1, r.code)
}

func TestEphemeralStoresNothing(t *testing.T) {
	dir := tdEnv(t)

	mustRunTD(t, "--ephemeral", "add", "gone soon")
	assert.Empty(t, listJSON(t))
	assert.NoFileExists(t, filepath.Join(dir, "data", "storage.json"))
}

func TestDBFlag(t *testing.T) {
	dir := tdEnv(t)
	db := filepath.Join(dir, "elsewhere", "tasks.json")

	mustRunTD(t, "--db", db, "add", "somewhere else")
	assert.FileExists(t, db)
	assert.Empty(t, listJSON(t))
	assert.Equal(t, []string{"somewhere else"}, texts(listJSON(t, "--db", db)))
}

func TestConfigCommands(t *testing.T) {
	dir := tdEnv(t)

	r := mustRunTD(t, "config", "path")
	assert.Equal(t, filepath.Join(dir, "config", "config.yaml")+"\n", r.stdout)

	mustRunTD(t, "config", "set", "form.theme", "charm")
	r = mustRunTD(t, "config", "get", "form.theme")
	assert.Equal(t, "charm\n", r.stdout)

	r = mustRunTD(t, "config", "list")
	assert.Contains(t, r.stdout, "form.theme")
	assert.Contains(t, r.stdout, "(config)")

	mustRunTD(t, "config", "unset", "form.theme")
	r = mustRunTD(t, "config", "get", "form.theme")
	assert.Equal(t, "dracula\n", r.stdout)

	for _, args := range [][]string{
		{"config", "set", "nope", "1"},
		{"config", "set", "storage.backend", "redis"},
		{"config", "set", "list.sort-priority", "maybe"},
		{"config", "set", "list.filter", "Someday"},
	} {
		r := runTD(t, args...)
		assert.Equal(t, 1, r.code, args)
		assert.Contains(t, r.stderr, "Error: ", args)
	}
	// config commands never open storage
	assert.NoFileExists(t, filepath.Join(dir, "data", "storage.json"))
}

func TestQuietSuppressesNormalOutput(t *testing.T) {
	tdEnv(t)

	r := mustRunTD(t, "-q", "add", "silent")
	assert.Empty(t, r.stdout)
	assert.Equal(t, []string{"silent"}, texts(listJSON(t)))
}

func TestVersion(t *testing.T) {
	tdEnv(t)

	r := mustRunTD(t, "version")
	assert.True(t, strings.HasPrefix(r.stdout, "td version "+Version), r.stdout)
	r = mustRunTD(t, "--version")
	assert.True(t, strings.HasPrefix(r.stdout, "td version "+Version), r.stdout)
}

func TestUnknownCommand(t *testing.T) {
	tdEnv(t)

	r := runTD(t, "frobnicate")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "Error: unknown command")
}

func TestNeedsStore(t *testing.T) {
	root := newRootCmd()
	find := func(args ...string) *cobra.Command {
		t.Helper()
		cmd, _, err := root.Find(args)
		require.NoError(t, err)
		return cmd
	}

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"add"}, true},
		{[]string{"list"}, true},
		{[]string{"draft", "clear"}, true},
		{[]string{"dark-mode"}, true},
		{[]string{"config", "get"}, false},
		{[]string{"config"}, false},
		{[]string{"version"}, false},
		{[]string{}, false},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, needsStore(find(tt.args...)))
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, path string
		want       string
		wantErr    bool
	}{
		{"", "", "json", false},
		{"", "-", "json", false},
		{"", "out.csv", "csv", false},
		{"", "out.YML", "yaml", false},
		{"toml", "out.csv", "toml", false},
		{"", "out.txt", "", true},
		{"xml", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"|"+tt.path, func(t *testing.T) {
			f, err := resolveFormat(tt.flag, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(f))
		})
	}
}

func TestValidateConfigSetting(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"storage.backend", "memory", false},
		{"storage.backend", "MySQL", false},
		{"storage.backend", "redis", true},
		{"list.filter", "urgent", false},
		{"list.filter", "Later", true},
		{"form.theme", "Catppuccin", false},
		{"form.theme", "neon", true},
		{"json", "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := validateConfigSetting(tt.key, tt.value)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestPrintErrorHint(t *testing.T) {
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	defer func() { stderr = old }()

	printError(withHint(os.ErrNotExist, "create it first"))
	assert.Equal(t, "Error: file does not exist\nHint: create it first\n", buf.String())

	buf.Reset()
	printError(os.ErrClosed)
	assert.Equal(t, "Error: file already closed\n", buf.String())

	assert.NoError(t, withHint(nil, "ignored"))
}
