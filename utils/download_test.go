package utils_test

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/cvrf-eval/utils"
)

func TestDownloadToTempDir(t *testing.T) {
	tests := []struct {
		name         string
		filePath     string
		wantFileName string
		want         string
		wantErr      string
	}{
		{
			name:         "happy path",
			filePath:     "cvrf.tar.gz",
			wantFileName: "cvrf-rhsa-2017-3263.xml",
			want:         advisory,
		},
		{
			name:     "sad path",
			filePath: "unknown.tar.gz",
			wantErr:  "bad response code: 404",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.FileServer(http.Dir(fixtures(t))))
			defer ts.Close()

			u, err := url.Parse(ts.URL)
			require.NoError(t, err)

			u.Path = path.Join(u.Path, tt.filePath)
			tmpDir, err := utils.DownloadToTempDir(context.Background(), u.String())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)

			got, err := os.ReadFile(filepath.Join(tmpDir, tt.wantFileName))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDownloadToTempFile(t *testing.T) {
	tests := []struct {
		name         string
		filePath     string
		wantFileName string
		want         string
		wantErr      string
	}{
		{
			name:     "happy path",
			filePath: "cvrf-rhsa-2017-3263.xml.gz",
			want:     advisory,
		},
		{
			name:     "sad path",
			filePath: "unknown.tar.gz",
			wantErr:  "bad response code: 404",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.FileServer(http.Dir(fixtures(t))))
			defer ts.Close()

			u, err := url.Parse(ts.URL)
			require.NoError(t, err)

			u.Path = path.Join(u.Path, tt.filePath)
			tmpFile, err := utils.DownloadToTempFile(context.Background(), u.String())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)

			got, err := os.ReadFile(tmpFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

const advisory = `<cvrfdoc xmlns="http://www.icasi.org/CVRF/schema/cvrf/1.1"><DocumentTitle>openssl</DocumentTitle></cvrfdoc>`

// fixtures writes a tarball and a gzipped advisory into a temp dir.
func fixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "cvrf.tar.gz"))
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "cvrf-rhsa-2017-3263.xml",
		Mode:     0644,
		Size:     int64(len(advisory)),
		Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write([]byte(advisory))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	f, err = os.Create(filepath.Join(dir, "cvrf-rhsa-2017-3263.xml.gz"))
	require.NoError(t, err)
	gw = gzip.NewWriter(f)
	_, err = gw.Write([]byte(advisory))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	return dir
}
