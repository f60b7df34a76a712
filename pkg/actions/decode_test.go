package actions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
)

func TestDecodeSymlink(t *testing.T) {
	action, err := actions.Decode(actions.Descriptor{
		Type:        actions.KindSymlink,
		Source:      "vim",
		Destination: "~/.config/nvim",
		DirMode:     true,
	})
	require.NoError(t, err)

	link, ok := action.(*actions.SymlinkAction)
	require.True(t, ok, "expected *SymlinkAction, got %T", action)
	assert.Equal(t, "vim", link.Source)
	assert.Equal(t, "~/.config/nvim", link.Destination)
	assert.True(t, link.DirMode)
}

func TestDecodeMkdirDefaultsParents(t *testing.T) {
	action, err := actions.Decode(actions.Descriptor{
		Type:      actions.KindMkdir,
		Directory: "~/.local/share/app",
	})
	require.NoError(t, err)

	mkdir, ok := action.(*actions.MkdirAction)
	require.True(t, ok)
	assert.True(t, mkdir.Parents, "parents should default to true")

	noParents := false
	action, err = actions.Decode(actions.Descriptor{
		Type:      actions.KindMkdir,
		Directory: "~/.cache/app",
		Parents:   &noParents,
	})
	require.NoError(t, err)
	assert.False(t, action.(*actions.MkdirAction).Parents)
}

func TestDecodeCat(t *testing.T) {
	action, err := actions.Decode(actions.Descriptor{
		Type:        actions.KindCat,
		Sources:     []string{"ssh/base", "ssh/work"},
		Destination: "~/.ssh/config",
	})
	require.NoError(t, err)

	cat, ok := action.(*actions.CatAction)
	require.True(t, ok)
	assert.Len(t, cat.Sources, 2)
	assert.Equal(t, "~/.ssh/config", cat.Destination)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name       string
		descriptor actions.Descriptor
	}{
		{"unknown_type", actions.Descriptor{Type: "TemplateAction"}},
		{"missing_type", actions.Descriptor{Source: "a", Destination: "b"}},
		{"symlink_missing_destination", actions.Descriptor{Type: actions.KindSymlink, Source: "a"}},
		{"copy_missing_source", actions.Descriptor{Type: actions.KindCopy, Destination: "b"}},
		{"mkdir_missing_directory", actions.Descriptor{Type: actions.KindMkdir}},
		{"cat_missing_sources", actions.Descriptor{Type: actions.KindCat, Destination: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actions.Decode(tt.descriptor)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrActionInvalid),
				"expected ACTION_INVALID, got %v", err)
		})
	}
}

func TestDecodeAll(t *testing.T) {
	decoded, err := actions.DecodeAll([]actions.Descriptor{
		{Type: actions.KindSymlink, Source: "vim/vimrc", Destination: "~/.vimrc"},
		{Type: actions.KindCopy, Source: "etc/hosts", Destination: "/etc/hosts", Overwrite: true},
	})
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, actions.KindSymlink, decoded[0].Kind())
	assert.Equal(t, actions.KindCopy, decoded[1].Kind())

	_, err = actions.DecodeAll([]actions.Descriptor{
		{Type: actions.KindSymlink, Source: "vim/vimrc", Destination: "~/.vimrc"},
		{Type: "NopeAction"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
