// pkg/types/types_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test instruction helpers and pak dictionary decoding

package types_test

import (
	"testing"

	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModRecordPakDictionary(t *testing.T) {
	tests := []struct {
		name    string
		attrs   map[string]interface{}
		want    types.PakDictionary
		wantErr bool
	}{
		{
			name:  "no_attributes",
			attrs: nil,
			want:  nil,
		},
		{
			name:  "typed_dictionary",
			attrs: map[string]interface{}{"pakDictionary": types.PakDictionary{"x.pak": "data2.pak"}},
			want:  types.PakDictionary{"x.pak": "data2.pak"},
		},
		{
			name:  "string_map",
			attrs: map[string]interface{}{"pakDictionary": map[string]string{"x.pak": "data3.pak"}},
			want:  types.PakDictionary{"x.pak": "data3.pak"},
		},
		{
			name:  "decoded_document",
			attrs: map[string]interface{}{"pakDictionary": map[string]interface{}{"x.pak": "data2.pak", "y.pak": "data3.pak"}},
			want:  types.PakDictionary{"x.pak": "data2.pak", "y.pak": "data3.pak"},
		},
		{
			name:    "non_string_value",
			attrs:   map[string]interface{}{"pakDictionary": map[string]interface{}{"x.pak": 3}},
			wantErr: true,
		},
		{
			name:    "wrong_type",
			attrs:   map[string]interface{}{"pakDictionary": []string{"x.pak"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &types.ModRecord{ID: "mod-1", Attributes: tt.attrs}
			got, err := rec.PakDictionary()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPakDictionaryHelpers(t *testing.T) {
	dict := types.PakDictionary{
		"b.pak": "data2.pak",
		"a.pak": "data3.pak",
		"c.pak": "data2.pak",
	}

	assert.Equal(t, []string{"data2.pak", "data3.pak"}, dict.Originals())
	assert.Equal(t, []string{"a.pak", "b.pak", "c.pak"}, dict.GeneratedNames())

	original, ok := dict.Lookup("a.pak")
	assert.True(t, ok)
	assert.Equal(t, "data3.pak", original)

	_, ok = dict.Lookup("missing.pak")
	assert.False(t, ok)

	var empty types.PakDictionary
	_, ok = empty.Lookup("a.pak")
	assert.False(t, ok)
}

func TestInstructionHelpers(t *testing.T) {
	instructions := []types.Instruction{
		types.SetModType("pak-merger"),
		types.Attribute("pakDictionary", types.PakDictionary{"x.pak": "data2.pak"}),
		types.Copy("mod/data2.pak", "x.pak"),
		types.Copy("ph/source/readme.txt", "ph/source/readme.txt"),
	}

	copies := types.FilterInstructions(instructions, types.InstructionCopy)
	assert.Len(t, copies, 2)
	assert.Equal(t, "x.pak", copies[0].Destination)

	attr, ok := types.FindAttribute(instructions, "pakDictionary")
	require.True(t, ok)
	assert.Equal(t, types.PakDictionary{"x.pak": "data2.pak"}, attr.Value)

	_, ok = types.FindAttribute(instructions, "other")
	assert.False(t, ok)
}

func TestSetAttribute(t *testing.T) {
	rec := &types.ModRecord{ID: "mod-1"}
	rec.SetAttribute("pakDictionary", types.PakDictionary{"x.pak": "data2.pak"})

	dict, err := rec.PakDictionary()
	require.NoError(t, err)
	assert.Equal(t, "data2.pak", dict["x.pak"])
}
