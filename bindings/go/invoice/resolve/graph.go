package resolve

import (
	"errors"
	"fmt"

	"ocm.software/open-component-model/bindle/bindings/go/dag"
	"ocm.software/open-component-model/bindle/bindings/go/invoice"
)

const (
	// AttributeParcel is the vertex attribute holding the invoice.Parcel.
	AttributeParcel = "bindle/parcel"
	// AttributeOrderIndex is the vertex attribute holding the position of the
	// parcel in the list the graph was built from.
	AttributeOrderIndex = "bindle/order"
)

// Graph materialises the implicit dependencies between the given parcels of
// an invoice. Vertices are parcel fingerprints; an edge A -> B exists iff A
// requires a label B is a member of. Members outside of parcels are ignored,
// as are parcels whose fingerprint was already added. A parcel that is a
// member of a label it requires gets no self edge.
func Graph(inv *invoice.Invoice, parcels []invoice.Parcel) (*dag.Graph[string], error) {
	g := dag.NewGraph[string]()
	for i, p := range parcels {
		if g.Contains(p.Label.SHA256) {
			continue
		}
		if err := g.AddVertex(p.Label.SHA256, map[string]any{AttributeParcel: p, AttributeOrderIndex: i}); err != nil {
			return nil, err
		}
	}
	for _, p := range parcels {
		for _, group := range p.Requires() {
			for _, member := range inv.ParcelsIn(group) {
				if !g.Contains(member.Label.SHA256) {
					continue
				}
				err := g.AddEdge(p.Label.SHA256, member.Label.SHA256)
				if errors.Is(err, dag.ErrSelfReference) {
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("adding dependency %s -> %s failed: %w", p, member, err)
				}
			}
		}
	}
	return g, nil
}

// InstallOrder returns the closure of seed ordered so that every parcel comes
// after the parcels it depends on. The seed is not part of the order unless
// it is part of its own closure. If the closure contains a dependency cycle
// no such order exists and a *dag.CycleError is returned.
func InstallOrder(inv *invoice.Invoice, seed invoice.Parcel) ([]invoice.Parcel, error) {
	order, err := Sort(inv, ParcelsRequiredBy(inv, seed))
	if err != nil {
		return nil, fmt.Errorf("no install order for %s: %w", seed, err)
	}
	return order, nil
}

// Sort orders parcels of inv so that every parcel comes after the parcels it
// depends on. Duplicate fingerprints are dropped.
func Sort(inv *invoice.Invoice, parcels []invoice.Parcel) ([]invoice.Parcel, error) {
	g, err := Graph(inv, parcels)
	if err != nil {
		return nil, err
	}
	keys, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	order := make([]invoice.Parcel, 0, len(keys))
	for _, key := range keys {
		order = append(order, g.MustGetVertex(key).Attributes[AttributeParcel].(invoice.Parcel))
	}
	return order, nil
}
