package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/xerrors"
)

const (
	lastUpdatedFile = "last_updated.json"
)

// LastUpdatedPath is where evaluation runs record, per platform, the release
// date of the newest advisory they evaluated.
func LastUpdatedPath() string {
	return filepath.Join(CacheDir(), lastUpdatedFile)
}

type LastUpdated map[string]time.Time

func (fs Fs) GetLastUpdatedDate(filePath, platform string) (time.Time, error) {
	lastUpdated, err := fs.getLastUpdatedDate(filePath)
	if err != nil {
		return time.Time{}, err
	}

	t, ok := lastUpdated[platform]
	if !ok {
		return time.Unix(0, 0), nil
	}

	return t, nil
}

func (fs Fs) getLastUpdatedDate(filePath string) (LastUpdated, error) {
	lastUpdated := LastUpdated{}
	if _, err := fs.AppFs.Stat(filePath); os.IsNotExist(err) {
		return lastUpdated, nil
	}

	f, err := fs.AppFs.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err = json.NewDecoder(f).Decode(&lastUpdated); err != nil {
		return nil, xerrors.Errorf("invalid %s: %w", filePath, err)
	}

	return lastUpdated, nil
}

func (fs Fs) SetLastUpdatedDate(filePath, platform string, lastUpdatedDate time.Time) error {
	lastUpdated, err := fs.getLastUpdatedDate(filePath)
	if err != nil {
		return xerrors.Errorf("failed to get last updated date: %w", err)
	}
	lastUpdated[platform] = lastUpdatedDate

	if err = fs.WriteJSON(filePath, lastUpdated); err != nil {
		return xerrors.Errorf("failed to write last updated date: %w", err)
	}

	return nil
}
