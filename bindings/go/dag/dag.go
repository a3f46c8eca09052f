// # Modified from https://github.com/kro-run/kro/blob/7e437f2fe159a1e1c59d8eefd2bfa55320df4489/pkg/graph/dag/dag.go under Apache 2.0 License
//
// Original License:
//
// Copyright 2025 The Kube Resource Orchestrator Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may
// not use this file except in compliance with the License. A copy of the
// License is located at
//
//     http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
// express or implied. See the License for the specific language governing
// permissions and limitations under the License.
//
// We would like to thank the authors of kro for their outstanding work on this code.

// Package dag provides a small directed graph used to materialise the
// parcel dependencies of an invoice.
//
// Unlike a strict DAG the graph accepts edges that close a cycle: bindle
// invoices may legally contain cyclic requirements. Operations that need an
// acyclic graph, such as TopologicalSort, report the cycle as a [CycleError].
package dag

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var ErrSelfReference = fmt.Errorf("self-references are not allowed")

// Vertex is a node of the graph.
type Vertex[T cmp.Ordered] struct {
	// ID is a unique identifier for the node
	ID T
	// Attributes stores arbitrary values attached to the node, such as the
	// parcel it represents.
	Attributes map[string]any
	// Edges stores the IDs of the nodes that this node has an outgoing edge to.
	Edges map[T]struct{}

	InDegree, OutDegree int
}

// EdgeKeys returns the targets of the outgoing edges in sorted order.
func (v *Vertex[T]) EdgeKeys() []T {
	return slices.Sorted(maps.Keys(v.Edges))
}

// Graph is a directed graph that may contain cycles.
type Graph[T cmp.Ordered] struct {
	Vertices map[T]*Vertex[T]
}

// NewGraph creates an empty graph.
func NewGraph[T cmp.Ordered]() *Graph[T] {
	return &Graph[T]{
		Vertices: make(map[T]*Vertex[T]),
	}
}

// AddVertex adds a new node to the graph.
func (d *Graph[T]) AddVertex(id T, attributes ...map[string]any) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("node %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{
		ID:         id,
		Attributes: make(map[string]any),
		Edges:      make(map[T]struct{}),
	}
	for _, attributes := range attributes {
		maps.Copy(d.Vertices[id].Attributes, attributes)
	}
	return nil
}

// MustGetVertex returns the vertex with the given id and panics if it is unknown.
func (d *Graph[T]) MustGetVertex(id T) *Vertex[T] {
	v, ok := d.Vertices[id]
	if !ok {
		panic(fmt.Sprintf("node %v does not exist", id))
	}
	return v
}

func (d *Graph[T]) Contains(v T) (ok bool) {
	_, ok = d.Vertices[v]
	return
}

// AddEdge adds a directed edge from one node to another. Adding an existing
// edge is a no-op. Edges closing a cycle are accepted.
func (d *Graph[T]) AddEdge(from, to T) error {
	fromNode, fromExists := d.Vertices[from]
	toNode, toExists := d.Vertices[to]
	if !fromExists {
		return fmt.Errorf("node %v does not exist", from)
	}
	if !toExists {
		return fmt.Errorf("node %v does not exist", to)
	}
	if from == to {
		return ErrSelfReference
	}
	if _, exists := fromNode.Edges[to]; exists {
		return nil
	}
	fromNode.Edges[to] = struct{}{}
	fromNode.OutDegree++
	toNode.InDegree++
	return nil
}

type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle: %s", strings.Join(e.Cycle, " -> "))
}

// Roots returns the nodes without incoming edges in sorted order.
func (d *Graph[T]) Roots() []T {
	var roots []T
	for _, key := range d.GetVertices() {
		if d.Vertices[key].InDegree == 0 {
			roots = append(roots, key)
		}
	}
	return roots
}

// GetVertices returns the nodes in the graph in sorted order.
func (d *Graph[T]) GetVertices() []T {
	return slices.Sorted(maps.Keys(d.Vertices))
}

// GetEdges returns the edges in the graph sorted by source, then target.
func (d *Graph[T]) GetEdges() [][2]T {
	var edges [][2]T
	for _, from := range d.GetVertices() {
		for _, to := range d.Vertices[from].EdgeKeys() {
			edges = append(edges, [2]T{from, to})
		}
	}
	return edges
}

// HasCycle reports whether the graph contains a cycle and returns the nodes
// of the first cycle found, starting and ending with the same node.
// Traversal is in sorted order so the reported cycle is deterministic.
func (d *Graph[T]) HasCycle() (bool, []string) {
	visited := make(map[T]bool)
	recStack := make(map[T]bool)
	var cyclePath []string

	var dfs func(T) bool
	dfs = func(node T) bool {
		visited[node] = true
		recStack[node] = true
		cyclePath = append(cyclePath, fmt.Sprintf("%v", node))

		for _, neighbor := range d.Vertices[node].EdgeKeys() {
			if !visited[neighbor] {
				if dfs(neighbor) {
					return true
				}
			} else if recStack[neighbor] {
				cyclePath = append(cyclePath, fmt.Sprintf("%v", neighbor))
				return true
			}
		}

		recStack[node] = false
		cyclePath = cyclePath[:len(cyclePath)-1]
		return false
	}

	for _, node := range d.GetVertices() {
		if visited[node] {
			continue
		}
		cyclePath = []string{}
		if dfs(node) {
			// trim the path to start at the repeated node
			last := cyclePath[len(cyclePath)-1]
			start := slices.Index(cyclePath, last)
			return true, cyclePath[start:]
		}
	}
	return false, nil
}

// TopologicalSort orders the nodes so that every node comes after all nodes
// it has an edge to. For a dependency graph this yields dependencies first.
// The order is deterministic. A cyclic graph yields a *CycleError.
func (d *Graph[T]) TopologicalSort() ([]T, error) {
	if cyclic, nodes := d.HasCycle(); cyclic {
		return nil, &CycleError{Cycle: nodes}
	}

	visited := make(map[T]bool, len(d.Vertices))
	order := make([]T, 0, len(d.Vertices))

	var dfs func(T)
	dfs = func(node T) {
		visited[node] = true
		for _, neighbor := range d.Vertices[node].EdgeKeys() {
			if !visited[neighbor] {
				dfs(neighbor)
			}
		}
		order = append(order, node)
	}

	for _, node := range d.GetVertices() {
		if !visited[node] {
			dfs(node)
		}
	}
	return order, nil
}

// Reachable returns every node reachable from start by following edges, in
// breadth-first order. The start node is only part of the result if a cycle
// leads back to it.
func (d *Graph[T]) Reachable(start T) []T {
	if !d.Contains(start) {
		return nil
	}
	visited := map[T]bool{}
	var result []T
	queue := d.Vertices[start].EdgeKeys()
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			continue
		}
		visited[node] = true
		result = append(result, node)
		queue = append(queue, d.Vertices[node].EdgeKeys()...)
	}
	return result
}
