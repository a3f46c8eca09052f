package invoice

import "slices"

// HasAnnotation reports whether the parcel label carries the annotation key.
func (p Parcel) HasAnnotation(key string) bool {
	if p.Label.Annotations == nil {
		return false
	}
	_, ok := p.Label.Annotations[key]
	return ok
}

// Requires returns the group labels the parcel requires in declaration order.
// The returned slice is a copy and may be modified by the caller.
func (p Parcel) Requires() []string {
	if p.Conditions == nil {
		return nil
	}
	return slices.Clone(p.Conditions.Requires)
}

// MemberOf returns the group labels the parcel is a member of.
func (p Parcel) MemberOf() []string {
	if p.Conditions == nil {
		return nil
	}
	return slices.Clone(p.Conditions.MemberOf)
}

// IsMemberOf reports whether the parcel is a member of the group label.
func (p Parcel) IsMemberOf(group string) bool {
	if p.Conditions == nil {
		return false
	}
	return slices.Contains(p.Conditions.MemberOf, group)
}

// IsGlobal reports whether the parcel belongs to no group. Such parcels are
// part of every install of the bindle.
func (p Parcel) IsGlobal() bool {
	return p.Conditions == nil || len(p.Conditions.MemberOf) == 0
}

// ParcelsIn returns all parcels that are a member of the group label, in
// invoice order.
func (inv *Invoice) ParcelsIn(group string) []Parcel {
	if inv == nil {
		return nil
	}
	var members []Parcel
	for _, p := range inv.Parcels {
		if p.IsMemberOf(group) {
			members = append(members, p)
		}
	}
	return members
}

// GlobalParcels returns the parcels that are not a member of any group.
func (inv *Invoice) GlobalParcels() []Parcel {
	if inv == nil {
		return nil
	}
	var globals []Parcel
	for _, p := range inv.Parcels {
		if p.IsGlobal() {
			globals = append(globals, p)
		}
	}
	return globals
}

// GroupLabels returns every distinct group label referenced by a parcel,
// either through membership or requirement, in first-seen order.
func (inv *Invoice) GroupLabels() []string {
	if inv == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var labels []string
	add := func(groups []string) {
		for _, g := range groups {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			labels = append(labels, g)
		}
	}
	for _, p := range inv.Parcels {
		if p.Conditions == nil {
			continue
		}
		add(p.Conditions.MemberOf)
		add(p.Conditions.Requires)
	}
	return labels
}
