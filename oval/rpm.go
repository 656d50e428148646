package oval

import (
	"strings"

	"golang.org/x/xerrors"
)

var ErrMalformedProductID = xerrors.New("malformed product id")

// Package is an RPM package named by a fully qualified product id.
type Package struct {
	ProductID string
	Name      string
	// EVR is [epoch:]version-release.
	EVR string
}

// Decompose splits "<prefix>:<name>-[<epoch>:]<version>-<release>" into the
// package name and its EVR.
func Decompose(productID, prefix string) (Package, error) {
	rest, ok := strings.CutPrefix(productID, prefix+":")
	if !ok || rest == "" {
		return Package{}, xerrors.Errorf("%q does not start with %q: %w", productID, prefix+":", ErrMalformedProductID)
	}

	var name, evr, versionRelease string
	if colon := strings.Index(rest, ":"); colon >= 0 {
		dash := strings.LastIndex(rest[:colon], "-")
		if dash <= 0 {
			return Package{}, xerrors.Errorf("%q has no package name before the epoch: %w", productID, ErrMalformedProductID)
		}
		epoch := rest[dash+1 : colon]
		if epoch == "" || strings.Trim(epoch, "0123456789") != "" {
			return Package{}, xerrors.Errorf("%q has an invalid epoch %q: %w", productID, epoch, ErrMalformedProductID)
		}
		name, evr, versionRelease = rest[:dash], rest[dash+1:], rest[colon+1:]
	} else {
		last := strings.LastIndex(rest, "-")
		if last <= 0 {
			return Package{}, xerrors.Errorf("%q has no release: %w", productID, ErrMalformedProductID)
		}
		dash := strings.LastIndex(rest[:last], "-")
		if dash <= 0 {
			return Package{}, xerrors.Errorf("%q has no version: %w", productID, ErrMalformedProductID)
		}
		name, evr = rest[:dash], rest[dash+1:]
		versionRelease = evr
	}

	version, release, ok := strings.Cut(versionRelease, "-")
	if !ok || version == "" || release == "" || strings.Contains(release, ":") {
		return Package{}, xerrors.Errorf("%q has an invalid version-release %q: %w", productID, versionRelease, ErrMalformedProductID)
	}
	return Package{ProductID: productID, Name: name, EVR: evr}, nil
}
