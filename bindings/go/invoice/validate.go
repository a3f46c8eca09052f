package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/opencontainers/go-digest"
)

var (
	ErrMissingName          = errors.New("bindle name must not be empty")
	ErrInvalidVersion       = errors.New("bindle version is not a valid semantic version")
	ErrInvalidFingerprint   = errors.New("parcel fingerprint is not a valid sha256 digest")
	ErrDuplicateFingerprint = errors.New("parcel fingerprint is listed more than once")
	ErrInvalidID            = errors.New("invalid bindle id")
)

// Validate checks the invoice metadata and parcel fingerprints. All problems
// found are returned joined together.
//
// Validation is independent from resolution: the resolver accepts any invoice.
func (inv *Invoice) Validate() error {
	if inv == nil {
		return fmt.Errorf("invoice must not be nil")
	}
	var errs []error
	if inv.Bindle.Name == "" {
		errs = append(errs, ErrMissingName)
	}
	if _, err := semver.StrictNewVersion(inv.Bindle.Version); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, inv.Bindle.Version, err))
	}

	seen := make(map[string]int, len(inv.Parcels))
	for i, p := range inv.Parcels {
		if _, err := Fingerprint(p.Label.SHA256); err != nil {
			errs = append(errs, fmt.Errorf("parcel %d (%s): %w", i, p.Label.Name, err))
			continue
		}
		if first, ok := seen[p.Label.SHA256]; ok {
			errs = append(errs, fmt.Errorf("%w: parcel %d and %d share %s", ErrDuplicateFingerprint, first, i, p.Label.SHA256))
			continue
		}
		seen[p.Label.SHA256] = i
	}
	return errors.Join(errs...)
}

// Fingerprint converts a hex encoded sha256 into a digest.
func Fingerprint(sha string) (digest.Digest, error) {
	d := digest.NewDigestFromEncoded(digest.SHA256, strings.ToLower(sha))
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidFingerprint, sha, err)
	}
	return d, nil
}

// ParseID splits a bindle id of the form "name/version". The name itself may
// contain slashes, the version is whatever follows the last one and must be a
// semantic version.
func ParseID(id string) (name, version string, err error) {
	idx := strings.LastIndex(id, "/")
	if idx <= 0 || idx == len(id)-1 {
		return "", "", fmt.Errorf("%w %q: expected name/version", ErrInvalidID, id)
	}
	name, version = id[:idx], id[idx+1:]
	if _, err := semver.StrictNewVersion(version); err != nil {
		return "", "", fmt.Errorf("%w %q: %w", ErrInvalidID, id, err)
	}
	return name, version, nil
}
