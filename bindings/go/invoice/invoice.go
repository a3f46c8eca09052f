package invoice

import (
	"fmt"
	"slices"
)

// DefaultBindleVersion is the invoice schema version written by this module.
const DefaultBindleVersion = "1.0.0"

// Invoice is the manifest of a bindle. It is treated as an immutable snapshot
// by every query in this package.
type Invoice struct {
	// BindleVersion is the version of the invoice schema.
	BindleVersion string `json:"bindleVersion" toml:"bindleVersion"`
	// Yanked marks a bindle that should no longer be used for new installs.
	Yanked *bool `json:"yanked,omitempty" toml:"yanked,omitempty"`
	// Bindle identifies the bundle described by the invoice.
	Bindle BindleSpec `json:"bindle" toml:"bindle"`
	// Annotations are free-form key value pairs on the invoice.
	Annotations map[string]string `json:"annotations,omitempty" toml:"annotations,omitempty"`
	// Parcels lists every artifact of the bundle. It may be nil.
	Parcels []Parcel `json:"parcel,omitempty" toml:"parcel,omitempty"`
	// Groups describes group labels. The entries are informational and are
	// never consulted to resolve requirements.
	Groups []Group `json:"group,omitempty" toml:"group,omitempty"`
	// Signatures carries signatures over the invoice. They are not verified.
	Signatures []Signature `json:"signature,omitempty" toml:"signature,omitempty"`
}

// BindleSpec names and versions a bindle.
type BindleSpec struct {
	Name        string   `json:"name" toml:"name"`
	Version     string   `json:"version" toml:"version"`
	Description string   `json:"description,omitempty" toml:"description,omitempty"`
	Authors     []string `json:"authors,omitempty" toml:"authors,omitempty"`
}

// Parcel is a single artifact of a bindle.
type Parcel struct {
	Label Label `json:"label" toml:"label"`
	// Conditions relates the parcel to group labels. It is optional.
	Conditions *Condition `json:"conditions,omitempty" toml:"conditions,omitempty"`
}

// Label describes the content of a parcel.
type Label struct {
	// SHA256 is the hex encoded sha256 fingerprint of the parcel content.
	// It is the only identity of a parcel.
	SHA256      string                       `json:"sha256" toml:"sha256"`
	MediaType   string                       `json:"mediaType" toml:"mediaType"`
	Name        string                       `json:"name" toml:"name"`
	Size        uint64                       `json:"size" toml:"size"`
	Annotations map[string]string            `json:"annotations,omitempty" toml:"annotations,omitempty"`
	Feature     map[string]map[string]string `json:"feature,omitempty" toml:"feature,omitempty"`
}

// Condition holds the group relations of a parcel.
type Condition struct {
	// MemberOf lists the group labels the parcel belongs to.
	MemberOf []string `json:"memberOf,omitempty" toml:"memberOf,omitempty"`
	// Requires lists the group labels whose members the parcel depends on.
	Requires []string `json:"requires,omitempty" toml:"requires,omitempty"`
}

// SatisfiedBy values for Group.
const (
	SatisfiedByAllOf    = "allOf"
	SatisfiedByOneOf    = "oneOf"
	SatisfiedByOptional = "optional"
)

// Group documents a group label.
type Group struct {
	Name        string `json:"name" toml:"name"`
	Required    bool   `json:"required,omitempty" toml:"required,omitempty"`
	SatisfiedBy string `json:"satisfiedBy,omitempty" toml:"satisfiedBy,omitempty"`
}

// Signature is a signature over the invoice.
type Signature struct {
	By        string `json:"by" toml:"by"`
	Signature string `json:"signature" toml:"signature"`
	Key       string `json:"key" toml:"key"`
	Role      string `json:"role" toml:"role"`
	At        uint64 `json:"at" toml:"at"`
}

// ID returns the canonical bindle id of the invoice, "name/version".
func (inv *Invoice) ID() string {
	if inv == nil {
		return ""
	}
	return inv.Bindle.Name + "/" + inv.Bindle.Version
}

func (inv *Invoice) String() string {
	if inv == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%d parcels)", inv.ID(), len(inv.Parcels))
}

// IsYanked reports whether the bindle was yanked.
func (inv *Invoice) IsYanked() bool {
	return inv != nil && inv.Yanked != nil && *inv.Yanked
}

// Parcel looks up a parcel by its fingerprint.
func (inv *Invoice) Parcel(sha string) (Parcel, bool) {
	if inv == nil {
		return Parcel{}, false
	}
	idx := slices.IndexFunc(inv.Parcels, func(p Parcel) bool {
		return p.Label.SHA256 == sha
	})
	if idx < 0 {
		return Parcel{}, false
	}
	return inv.Parcels[idx], true
}

// ParcelByName returns the first parcel whose label carries the given name.
func (inv *Invoice) ParcelByName(name string) (Parcel, bool) {
	if inv == nil {
		return Parcel{}, false
	}
	idx := slices.IndexFunc(inv.Parcels, func(p Parcel) bool {
		return p.Label.Name == name
	})
	if idx < 0 {
		return Parcel{}, false
	}
	return inv.Parcels[idx], true
}

// Lookup resolves a parcel either by fingerprint or, failing that, by name.
func (inv *Invoice) Lookup(ref string) (Parcel, bool) {
	if p, ok := inv.Parcel(ref); ok {
		return p, true
	}
	return inv.ParcelByName(ref)
}

func (p Parcel) String() string {
	if p.Label.Name == "" {
		return p.Label.SHA256
	}
	return fmt.Sprintf("%s@%s", p.Label.Name, p.Label.SHA256)
}
