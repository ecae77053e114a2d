package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a.txt", want: "a.txt"},
		{in: "scripts/a.txt", want: "scripts/a.txt"},
		{in: `scripts\a.txt`, want: "scripts/a.txt"},
		{in: "scripts/", want: "scripts"},
		{in: "./a.txt", want: "a.txt"},
		{in: "./", want: ""},
		{in: "../a.txt", wantErr: true},
		{in: "a/../../b", wantErr: true},
		{in: "/abs", wantErr: true},
		{in: "C:/windows", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sanitizeName(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
