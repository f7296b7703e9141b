package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFileID(t *testing.T) {
	cases := []struct {
		name string
		link string
		want string
	}{
		{
			name: "file/d/ view link",
			link: "https://drive.google.com/file/d/1AbCdEfGhIjKlMnOp/view?usp=sharing",
			want: "1AbCdEfGhIjKlMnOp",
		},
		{
			name: "open?id= link",
			link: "https://drive.google.com/open?id=1AbCdEfGhIjKlMnOp",
			want: "1AbCdEfGhIjKlMnOp",
		},
		{
			name: "uc?id= download link",
			link: "https://drive.google.com/uc?id=1AbCdEfGhIjKlMnOp&export=download",
			want: "1AbCdEfGhIjKlMnOp",
		},
		{
			name: "bare file ID",
			link: "1AbCdEfGhIjKlMnOp",
			want: "1AbCdEfGhIjKlMnOp",
		},
		{
			name: "trailing slash without view",
			link: "https://drive.google.com/file/d/1AbCdEfGhIjKlMnOp/",
			want: "1AbCdEfGhIjKlMnOp",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractFileID(tc.link)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractFileIDRejectsBadLinks(t *testing.T) {
	for _, link := range []string{
		"",
		"   ",
		"https://drive.google.com/drive/folders/",
		"https://example.com/not-a-drive-link",
	} {
		_, err := ExtractFileID(link)
		assert.Error(t, err, "expected error for %q", link)
	}
}
