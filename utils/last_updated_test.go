package utils

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastUpdatedDate(t *testing.T) {
	fs := NewFs(afero.NewMemMapFs())
	path := "/cache/last_updated.json"

	got, err := fs.GetLastUpdatedDate(path, "Red Hat Enterprise Linux Server (v. 7)")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0), got)

	released := time.Date(2017, 11, 29, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fs.SetLastUpdatedDate(path, "Red Hat Enterprise Linux Server (v. 7)", released))
	require.NoError(t, fs.SetLastUpdatedDate(path, "SUSE Linux Enterprise Server 12 SP5", released.AddDate(0, 1, 0)))

	got, err = fs.GetLastUpdatedDate(path, "Red Hat Enterprise Linux Server (v. 7)")
	require.NoError(t, err)
	assert.True(t, released.Equal(got))

	got, err = fs.GetLastUpdatedDate(path, "SUSE Linux Enterprise Server 12 SP5")
	require.NoError(t, err)
	assert.True(t, released.AddDate(0, 1, 0).Equal(got))
}

func TestLastUpdatedDate_Broken(t *testing.T) {
	appFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(appFs, "last_updated.json", []byte("{"), 0644))

	_, err := NewFs(appFs).GetLastUpdatedDate("last_updated.json", "x")
	assert.Error(t, err)
}
