package cvrf

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

var (
	ErrPlatformNotFound   = xerrors.New("no product branch matches the platform")
	ErrNotApplicable      = xerrors.New("no relationship refers to the platform product")
	ErrProductStatusEmpty = xerrors.New("product status has no entry for the platform product")
)

// FindProductID searches the branch tree depth-first in document order and
// returns the product id of the first leaf named platform.
func (t *ProductTree) FindProductID(platform string) (string, bool) {
	if t == nil {
		return "", false
	}
	return findProductID(t.Branches, platform)
}

func findProductID(branches []*Branch, platform string) (string, bool) {
	for _, b := range branches {
		if b.IsFamily() {
			if id, ok := findProductID(b.Branches, platform); ok {
				return id, true
			}
			continue
		}
		if b.Name == platform && b.ProductName != nil {
			return b.ProductName.ProductID, true
		}
	}
	return "", false
}

// FilterByPlatform narrows the relationships to those relating to the
// platform's product and returns that product id. The tree is untouched when
// the platform is unknown; an emptied relationship list is left empty.
func (t *ProductTree) FilterByPlatform(platform string) (string, error) {
	productID, ok := t.FindProductID(platform)
	if !ok {
		return "", xerrors.Errorf("%s: %w", platform, ErrPlatformNotFound)
	}
	t.Relationships = lo.Filter(t.Relationships, func(r *Relationship, _ int) bool {
		return r.RelatesToProductReference == productID
	})
	if len(t.Relationships) == 0 {
		t.Relationships = nil
		return productID, xerrors.Errorf("%s (%s): %w", platform, productID, ErrNotApplicable)
	}
	return productID, nil
}

// FilterByProduct narrows every product status to ids starting with
// productID. It stops at the first status that would become empty, leaving
// that status and the following ones untouched.
func (v *Vulnerability) FilterByProduct(productID string) error {
	for _, s := range v.ProductStatuses {
		ids := lo.Filter(s.ProductIDs, func(id string, _ int) bool {
			return strings.HasPrefix(id, productID)
		})
		if len(ids) == 0 {
			return xerrors.Errorf("vulnerability %d %q: %w", v.Ordinal, s.Type, ErrProductStatusEmpty)
		}
		s.ProductIDs = ids
	}
	return nil
}

// FilterResult describes the outcome of narrowing a model to one platform.
type FilterResult struct {
	Platform  string
	ProductID string
	// Skipped lists ordinals of vulnerabilities whose statuses could not be narrowed.
	Skipped []int
	// Errors holds the per-vulnerability failures.
	Errors error
}

// FilterByPlatform narrows the model in place. A failure of the product tree
// is returned as an error; vulnerability failures are only reported in the
// result.
func (m *Model) FilterByPlatform(platform string) (*FilterResult, error) {
	productID, err := m.ProductTree.FilterByPlatform(platform)
	if err != nil {
		return nil, err
	}

	res := &FilterResult{Platform: platform, ProductID: productID}
	var errs *multierror.Error
	for _, v := range m.Vulnerabilities {
		if err = v.FilterByProduct(productID); err != nil {
			res.Skipped = append(res.Skipped, v.Ordinal)
			errs = multierror.Append(errs, err)
		}
	}
	res.Errors = errs.ErrorOrNil()
	return res, nil
}

// ProductIDs returns the full product ids of the relationships in order.
func (t *ProductTree) ProductIDs() []string {
	if t == nil {
		return nil
	}
	return lo.FilterMap(t.Relationships, func(r *Relationship, _ int) (string, bool) {
		if r.ProductName == nil {
			return "", false
		}
		return r.ProductName.ProductID, true
	})
}

// PackageName returns the display name of the Product Version leaf whose
// product id ends fullID. Top-level branches are tried first, then the rest
// of the tree in document order.
func (t *ProductTree) PackageName(fullID string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, b := range t.Branches {
		if name, ok := b.versionName(fullID); ok {
			return name, true
		}
	}
	return findVersionName(t.Branches, fullID)
}

func (b *Branch) versionName(fullID string) (string, bool) {
	if b.Type != BranchProductVersion || b.ProductName == nil || b.ProductName.ProductID == "" {
		return "", false
	}
	if !strings.HasSuffix(fullID, b.ProductName.ProductID) {
		return "", false
	}
	return b.ProductName.CPE, true
}

func findVersionName(branches []*Branch, fullID string) (string, bool) {
	for _, b := range branches {
		if name, ok := b.versionName(fullID); ok {
			return name, true
		}
		if name, ok := findVersionName(b.Branches, fullID); ok {
			return name, true
		}
	}
	return "", false
}
