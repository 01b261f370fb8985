package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugsmith/plugsmith/internal/pipeline"
	"github.com/plugsmith/plugsmith/internal/testutil"
)

// newController writes the fixture surface to disk and wires a controller
// with captured output streams.
func newController(t *testing.T) (*Controller, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	surfacePath := filepath.Join(t.TempDir(), "surface.json")
	require.NoError(t, os.WriteFile(surfacePath, []byte(testutil.SurfaceJSON), 0644))

	var stdout, stderr bytes.Buffer
	ctrl := &Controller{
		Flags:  &Flags{Surface: surfacePath},
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return ctrl, &stdout, &stderr
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"name=Flag Task", "body=target.flag();", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":  "Flag Task",
		"body":  "target.flag();",
		"empty": "",
	}, params)

	// Values may contain further equals signs
	params, err = parseParams([]string{"body=var x = 1;"})
	require.NoError(t, err)
	assert.Equal(t, "var x = 1;", params["body"])

	_, err = parseParams([]string{"no-separator"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")

	_, err = parseParams([]string{"=value"})
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	ctrl, stdout, stderr := newController(t)
	outDir := t.TempDir()
	ctrl.Flags.Template = "solitary-action"
	ctrl.Flags.Params = []string{"name=Flag Task", "body=target.flagged = true;"}
	ctrl.Flags.Out = outDir

	require.NoError(t, ctrl.Generate(context.Background()))

	path := strings.TrimSpace(stdout.String())
	assert.Equal(t, filepath.Join(outDir, "flag-task.js"), path)
	assert.Empty(t, stderr.String())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "target.flagged = true;")
}

func TestGenerateCommand_Rejection(t *testing.T) {
	ctrl, stdout, stderr := newController(t)
	ctrl.Flags.Template = "solitary-action"
	ctrl.Flags.Params = []string{"name=Broken", "body=target.flagged();"}
	ctrl.Flags.Out = t.TempDir()

	err := ctrl.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected with 1 error(s)")
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "PROPERTY_CALLED_AS_METHOD")
}

func TestValidateCommand(t *testing.T) {
	ctrl, stdout, stderr := newController(t)
	ctrl.Flags.Template = "solitary-action"
	ctrl.Flags.Params = []string{"name=Fine", "body=target.flag();"}

	require.NoError(t, ctrl.Validate(context.Background()))
	assert.Equal(t, "ok\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestValidateCommand_RequestFile(t *testing.T) {
	ctrl, stdout, _ := newController(t)

	req := pipeline.Request{
		TemplateID: "solitary-action",
		Params: map[string]string{
			"name": "From File",
			"body": "target.flag();",
		},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	requestPath := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(requestPath, data, 0644))

	ctrl.Flags.Request = requestPath
	require.NoError(t, ctrl.Validate(context.Background()))
	assert.Equal(t, "ok\n", stdout.String())
}

func TestValidateCommand_MissingInputs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ctrl := &Controller{Flags: &Flags{}, Stdout: &stdout, Stderr: &stderr}

	err := ctrl.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--surface")

	ctrl, _, _ = newController(t)
	err = ctrl.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--template")
}

func TestTemplatesCommand(t *testing.T) {
	ctrl, stdout, _ := newController(t)

	require.NoError(t, ctrl.Templates(context.Background()))
	out := stdout.String()
	assert.Contains(t, out, "solitary-action")
	assert.Contains(t, out, "library-module")
	assert.Contains(t, out, "action-bundle")
	assert.Contains(t, out, "name:string")
	assert.Contains(t, out, "description:text?")
}

func TestSurfaceCheckCommand(t *testing.T) {
	ctrl, stdout, _ := newController(t)

	require.NoError(t, ctrl.SurfaceCheck(context.Background()))
	assert.Contains(t, stdout.String(), "version 1.4.0")
}

func TestSurfaceCheckCommand_ListsEveryIssue(t *testing.T) {
	bad := `{
	  "globals": {"target": "Missing", "fetch": "Missing"},
	  "forbidden": {"fetch": "hint"},
	  "types": []
	}`
	surfacePath := filepath.Join(t.TempDir(), "surface.json")
	require.NoError(t, os.WriteFile(surfacePath, []byte(bad), 0644))

	var stdout, stderr bytes.Buffer
	ctrl := &Controller{
		Flags:  &Flags{Surface: surfacePath},
		Stdout: &stdout,
		Stderr: &stderr,
	}

	err := ctrl.SurfaceCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "SURFACE_MISSING_VERSION")
	assert.Contains(t, stderr.String(), "SURFACE_DANGLING_GLOBAL")
	assert.Contains(t, stderr.String(), "SURFACE_FORBIDDEN_GLOBAL")
}
