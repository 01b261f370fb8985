package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, id := range []string{"solitary-action", "library-module", "action-bundle"} {
		tpl, err := c.Get(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, tpl.ID)
		assert.NotEmpty(t, tpl.Body)
		assert.NotEmpty(t, tpl.Filename)
		assert.NotEmpty(t, tpl.Slots)
	}

	_, err = c.Get("no-such-template")
	assert.Error(t, err)
}

func TestListIsSorted(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	list := c.List()
	require.GreaterOrEqual(t, len(list), 3)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestLoadDirectoryOverrides(t *testing.T) {
	dir := t.TempDir()
	override := `
id: solitary-action
shape: SolitaryScript
filename: "{{name}}.js"
slots:
  name:
    type: string
    required: true
    phase: load
body: |
  // {{name}}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solitary-action.yaml"), []byte(override), 0644))

	c, err := Load(dir)
	require.NoError(t, err)

	tpl, err := c.Get("solitary-action")
	require.NoError(t, err)
	assert.Len(t, tpl.Slots, 1)

	// Embedded templates not overridden are still present
	_, err = c.Get("library-module")
	assert.NoError(t, err)
}

func TestLoadRejectsInvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	bad := `
id: broken
shape: Pyramid
filename: "x.js"
body: "// x"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(bad), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shape")
}

func TestSlotCheckValue(t *testing.T) {
	tests := []struct {
		name    string
		slot    Slot
		value   string
		wantErr bool
	}{
		{name: "string accepts anything", slot: Slot{Type: SlotString}, value: "Flag Task"},
		{name: "identifier ok", slot: Slot{Type: SlotIdentifier}, value: "_myLib$2"},
		{name: "identifier rejects spaces", slot: Slot{Type: SlotIdentifier}, value: "my lib", wantErr: true},
		{name: "identifier rejects leading digit", slot: Slot{Type: SlotIdentifier}, value: "2lib", wantErr: true},
		{name: "number ok", slot: Slot{Type: SlotNumber}, value: "3.25"},
		{name: "number rejects word", slot: Slot{Type: SlotNumber}, value: "three", wantErr: true},
		{name: "boolean ok", slot: Slot{Type: SlotBoolean}, value: "false"},
		{name: "boolean rejects other", slot: Slot{Type: SlotBoolean}, value: "yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.CheckValue(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
