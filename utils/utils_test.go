package utils_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/cvrf-eval/utils"
)

func TestFetchConcurrently(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.xml" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, r.URL.Path)
	}))
	defer ts.Close()

	tests := []struct {
		name        string
		paths       []string
		concurrency int
		want        []string
		wantErr     string
	}{
		{
			name:        "happy path",
			paths:       []string{"/a.xml", "/b.xml", "/c.xml"},
			concurrency: 2,
			want:        []string{"/a.xml", "/b.xml", "/c.xml"},
		},
		{
			name:        "no workers requested",
			paths:       []string{"/a.xml", "/b.xml"},
			concurrency: 0,
			want:        []string{"/a.xml", "/b.xml"},
		},
		{
			name:        "sad path",
			paths:       []string{"/a.xml", "/missing.xml"},
			concurrency: 2,
			want:        []string{"/a.xml", ""},
			wantErr:     "status code: 404",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var urls []string
			for _, p := range tt.paths {
				urls = append(urls, ts.URL+p)
			}

			got, err := utils.FetchConcurrently(urls, tt.concurrency, 0, 0)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w, string(got[i]))
			}
		})
	}
}
