package netns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		nsName  string
		want    string
		wantErr bool
	}{
		{
			name:   "default dir",
			nsName: "swns",
			want:   "/var/run/netns/swns",
		},
		{
			name:   "custom dir",
			dir:    "/run/netns/",
			nsName: "VRF_1",
			want:   "/run/netns/VRF_1",
		},
		{
			name:   "longest name that fits",
			nsName: strings.Repeat("a", MaxPathLen-len(DefaultDir)-1),
			want:   DefaultDir + "/" + strings.Repeat("a", MaxPathLen-len(DefaultDir)-1),
		},
		{
			name:    "one byte too long",
			nsName:  strings.Repeat("a", MaxPathLen-len(DefaultDir)),
			wantErr: true,
		},
		{
			name:    "empty",
			wantErr: true,
		},
		{
			name:    "dot dot",
			nsName:  "..",
			wantErr: true,
		},
		{
			name:    "separator",
			nsName:  "a/b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Path(tt.dir, tt.nsName)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
