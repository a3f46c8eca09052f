// Package resolve computes the transitive closure of parcels a parcel
// requires within an invoice.
//
// Requirements are expressed through group labels: a parcel A depends on a
// parcel B iff A requires a label L and B is a member of L. The resolver keeps
// a frontier of unexplored labels, joins each label against the membership of
// all parcels and queues the labels required by the members it discovers
// until no label is left.
//
// Every distinct label is expanded at most once per call, which makes the
// computation terminate on any invoice including cyclic ones. Parcels are
// deduplicated by their fingerprint, keeping the first occurrence, and are
// returned in the order they were first discovered.
package resolve

import (
	"log/slog"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
)

// ParcelsRequiredBy returns the parcels transitively required by seed.
//
// The seed itself is only part of the result if it is a member of one of the
// labels reached during the traversal, that is if a cycle leads back to it.
func ParcelsRequiredBy(inv *invoice.Invoice, seed invoice.Parcel) []invoice.Parcel {
	return New().Closure(inv, seed)
}

// RequiredGroups returns every group label visited while resolving seed, in
// expansion order.
func RequiredGroups(inv *invoice.Invoice, seed invoice.Parcel) []string {
	return New().expand(inv, seed).groups
}

// Resolver resolves closures with configurable behaviour.
// The zero value is not usable, construct it with New.
type Resolver struct {
	logger      *slog.Logger
	includeSeed bool
	withGlobals bool
}

// New creates a resolver with the given options applied.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt.Apply(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With(slog.String("realm", "resolve"))
	return r
}

// Closure returns the parcels transitively required by seed. See
// ParcelsRequiredBy for the exact semantics; options may additionally place
// the seed first and append the global parcels of the invoice together with
// everything they require. A global seed is only returned with
// WithIncludeSeed.
func (r *Resolver) Closure(inv *invoice.Invoice, seed invoice.Parcel) []invoice.Parcel {
	e := r.expand(inv, seed)
	r.logger.Debug("resolved parcel closure",
		slog.String("parcel", seed.String()),
		slog.Int("groups", len(e.groups)),
		slog.Int("parcels", len(e.parcels)),
	)
	return e.parcels
}

// expansion holds the private state of a single resolution.
type expansion struct {
	// labels that were queued at some point, popped or pending
	seen     map[string]struct{}
	frontier []string
	groups   []string

	found   map[string]struct{}
	parcels []invoice.Parcel
}

func (r *Resolver) expand(inv *invoice.Invoice, seed invoice.Parcel) *expansion {
	e := &expansion{
		seen:    make(map[string]struct{}),
		found:   make(map[string]struct{}),
		parcels: []invoice.Parcel{},
	}
	if r.includeSeed {
		e.add(seed)
	}
	e.enqueue(seed.Requires()...)
	r.drain(inv, e)

	if r.withGlobals {
		for _, p := range inv.GlobalParcels() {
			if p.Label.SHA256 == seed.Label.SHA256 && !r.includeSeed {
				continue
			}
			if e.add(p) {
				e.enqueue(p.Requires()...)
			}
		}
		r.drain(inv, e)
	}
	return e
}

// drain expands queued labels until the frontier is empty.
func (r *Resolver) drain(inv *invoice.Invoice, e *expansion) {
	for len(e.frontier) > 0 {
		group := e.frontier[0]
		e.frontier = e.frontier[1:]
		e.groups = append(e.groups, group)

		members := inv.ParcelsIn(group)
		if len(members) == 0 {
			r.logger.Debug("group has no members", slog.String("group", group))
			continue
		}
		for _, member := range members {
			if !e.add(member) {
				// its requirements were queued when it was first found
				continue
			}
			e.enqueue(member.Requires()...)
		}
	}
}

func (e *expansion) enqueue(groups ...string) {
	for _, g := range groups {
		if _, ok := e.seen[g]; ok {
			continue
		}
		e.seen[g] = struct{}{}
		e.frontier = append(e.frontier, g)
	}
}

// add records a parcel and reports whether it was not known before.
func (e *expansion) add(p invoice.Parcel) bool {
	if _, ok := e.found[p.Label.SHA256]; ok {
		return false
	}
	e.found[p.Label.SHA256] = struct{}{}
	e.parcels = append(e.parcels, p)
	return true
}
