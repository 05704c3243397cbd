package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sigform/internal/config"
	"github.com/goliatone/go-sigform/pkg/renderers/tui"
	"github.com/goliatone/go-sigform/pkg/store"
	"github.com/goliatone/go-sigform/pkg/testsupport"
)

type scriptedDriver struct {
	selects  []int
	confirms []bool
	err      error
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return "", d.err
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, d.err
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, d.err
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, d.err
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", d.err
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

type env struct {
	dir       string
	exportDir string
	opts      *RootOptions
}

func newEnv(t *testing.T, backend string) *env {
	t.Helper()
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "out")
	storage := filepath.Join(dir, "drafts")
	if backend == config.BackendSQLite {
		storage = filepath.Join(dir, "sigform.db")
	}
	project := "locale: en\nstorage:\n  backend: " + backend + "\n  path: " + storage + "\nexport:\n  dir: " + exportDir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigFile), []byte(project), 0o644))

	return &env{
		dir:       dir,
		exportDir: exportDir,
		opts: &RootOptions{
			loaderOpts: []config.LoaderOption{config.WithHomeDir(dir), config.WithWorkDir(dir)},
		},
	}
}

func (e *env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(e.opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *env) writeSnapshot(t *testing.T) string {
	t.Helper()
	data, err := store.Encode(testsupport.ValidForm())
	require.NoError(t, err)
	path := filepath.Join(e.dir, "valid.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sigform", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"edit", "check", "print", "export", "import", "clear", "show"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)

	require.NotNil(t, cmd.PersistentFlags().Lookup("locale"))
}

func TestCheck_InvalidDraft(t *testing.T) {
	e := newEnv(t, config.BackendFile)

	out, _, err := e.run(t, "check")
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.True(t, strings.HasPrefix(out, "Input errors ("), out)
	assert.Contains(t, out, "1. Submission date is missing")

	out, _, err = e.run(t, "check", "--json")
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, out, `"rule": "submission_date"`)
}

func TestLocaleFlagOverridesConfig(t *testing.T) {
	e := newEnv(t, config.BackendMemory)

	out, _, err := e.run(t, "check", "--locale", "ja")
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, out, "1. 提案日が入力されていません")
}

func TestDraftLifecycle(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			e := newEnv(t, backend)
			snapshot := e.writeSnapshot(t)

			out, _, err := e.run(t, "import", snapshot)
			require.NoError(t, err)
			assert.Equal(t, "Data imported\n", out)

			out, _, err = e.run(t, "check")
			require.NoError(t, err)
			assert.Equal(t, "✓ All required fields are filled in\n", out)

			exportDir := filepath.Join(e.dir, "snapshots")
			out, _, err = e.run(t, "export", "-o", exportDir)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "Saved to "+filepath.Join(exportDir, "sig-proposal-")), out)

			out, _, err = e.run(t, "print")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "Written to "+filepath.Join(e.exportDir, "sig-proposal-EISE-")), out)

			out, _, err = e.run(t, "show")
			require.NoError(t, err)
			assert.Contains(t, out, "Information and Systems in Education")

			_, _, err = e.run(t, "clear", "--yes")
			require.NoError(t, err)

			_, _, err = e.run(t, "check")
			assert.ErrorIs(t, err, ErrInvalidForm)
		})
	}
}

func TestPrint_Stdout(t *testing.T) {
	e := newEnv(t, config.BackendFile)
	_, _, err := e.run(t, "import", e.writeSnapshot(t))
	require.NoError(t, err)

	out, _, err := e.run(t, "print", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "<html")
	assert.NoDirExists(t, e.exportDir)
}

func TestPrint_BlockedWhenInvalid(t *testing.T) {
	e := newEnv(t, config.BackendFile)

	out, errOut, err := e.run(t, "print")
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "The form has errors. Review them before exporting.")
	assert.NoDirExists(t, e.exportDir)
}

func TestImport_MissingFile(t *testing.T) {
	e := newEnv(t, config.BackendFile)

	_, _, err := e.run(t, "import", filepath.Join(e.dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read the file")
}

func TestShow_Document(t *testing.T) {
	e := newEnv(t, config.BackendFile)

	out, _, err := e.run(t, "show", "--renderer", "document")
	require.NoError(t, err)
	assert.Contains(t, out, "<html")

	_, _, err = e.run(t, "show", "--renderer", "pdf")
	assert.Error(t, err)
}

func TestEdit_QuitAndAbort(t *testing.T) {
	e := newEnv(t, config.BackendFile)

	e.opts.driver = &scriptedDriver{selects: []int{6}}
	_, _, err := e.run(t, "edit")
	require.NoError(t, err)

	e.opts.driver = &scriptedDriver{err: tui.ErrAborted}
	_, _, err = e.run(t, "edit")
	require.NoError(t, err)
}

func TestInvalidConfigFile(t *testing.T) {
	e := newEnv(t, config.BackendFile)
	explicit := filepath.Join(e.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("storage:\n  backend: redis\n"), 0o644))

	_, _, err := e.run(t, "--config", explicit, "check")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestClear_AsksForConfirmation(t *testing.T) {
	e := newEnv(t, config.BackendFile)
	_, _, err := e.run(t, "import", e.writeSnapshot(t))
	require.NoError(t, err)

	e.opts.driver = &scriptedDriver{confirms: []bool{false}}
	_, _, err = e.run(t, "clear")
	require.NoError(t, err)
	_, _, err = e.run(t, "check")
	require.NoError(t, err, "declined clear must keep the draft")

	e.opts.driver = &scriptedDriver{err: tui.ErrAborted}
	_, _, err = e.run(t, "clear")
	require.NoError(t, err)
	_, _, err = e.run(t, "check")
	require.NoError(t, err, "aborted clear must keep the draft")

	e.opts.driver = &scriptedDriver{confirms: []bool{true}}
	_, _, err = e.run(t, "clear")
	require.NoError(t, err)
	_, _, err = e.run(t, "check")
	assert.ErrorIs(t, err, ErrInvalidForm)
}
