package tree

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/jedib0t/go-pretty/v6/list"

	"ocm.software/open-component-model/bindle/bindings/go/dag"
)

// Renderer renders a tree structure from a dag.Graph.
// The output rendered by the Renderer looks like this:
//
//	── A
//	   ├─ B
//	   │  ╰─ C
//	   ╰─ D
//
// Each letter corresponds to a vertex in the graph. The concrete
// representation of the vertex is defined by the VertexSerializer.
// A vertex that is reached again on the path from its root is printed once
// more with the CycleMarker and not descended into.
type Renderer[T cmp.Ordered] struct {
	listWriter       list.Writer
	vertexSerializer VertexSerializer[T]
	// The roots are optional. If not provided, the Renderer will
	// determine the roots from the graph.
	roots []T
	// orderAttribute names an int vertex attribute used to order siblings.
	orderAttribute string
	graph          *dag.Graph[T]
}

// CycleMarker is appended to vertices that close a cycle.
const CycleMarker = " ↺"

// VertexSerializer is an interface that defines a method to serialize a vertex.
type VertexSerializer[T cmp.Ordered] interface {
	Serialize(*dag.Vertex[T]) (string, error)
}

// VertexSerializerFunc is a function type that implements the VertexSerializer
// interface.
type VertexSerializerFunc[T cmp.Ordered] func(*dag.Vertex[T]) (string, error)

// Serialize implements the VertexSerializer interface for VertexSerializerFunc.
func (f VertexSerializerFunc[T]) Serialize(v *dag.Vertex[T]) (string, error) {
	return f(v)
}

// New creates a new Renderer for the given graph.
func New[T cmp.Ordered](ctx context.Context, graph *dag.Graph[T], opts ...RendererOption[T]) *Renderer[T] {
	options := &RendererOptions[T]{}
	for _, opt := range opts {
		opt(options)
	}

	if options.VertexSerializer == nil {
		options.VertexSerializer = VertexSerializerFunc[T](func(v *dag.Vertex[T]) (string, error) {
			return fmt.Sprintf("%v", v.ID), nil
		})
	}

	if len(options.Roots) == 0 {
		slog.DebugContext(ctx, "no roots provided, determining roots from graph")
	}

	return &Renderer[T]{
		listWriter:       list.NewWriter(),
		vertexSerializer: options.VertexSerializer,
		roots:            options.Roots,
		orderAttribute:   options.OrderAttribute,
		graph:            graph,
	}
}

// Render renders the tree structure starting from the roots.
// It writes the output to the provided writer.
func (t *Renderer[T]) Render(ctx context.Context, writer io.Writer) error {
	t.listWriter.SetStyle(list.StyleConnectedRounded)
	defer t.listWriter.Reset()

	roots := t.roots
	if len(roots) == 0 {
		roots = t.graph.Roots()
	}
	roots = slices.DeleteFunc(slices.Clone(roots), func(root T) bool {
		return !t.graph.Contains(root)
	})

	for _, root := range roots {
		if err := t.traverse(ctx, root, map[T]bool{}); err != nil {
			return fmt.Errorf("failed to traverse graph: %w", err)
		}
	}
	t.listWriter.SetOutputMirror(writer)
	t.listWriter.Render()
	return nil
}

func (t *Renderer[T]) traverse(ctx context.Context, id T, path map[T]bool) error {
	vertex := t.graph.Vertices[id]
	item, err := t.vertexSerializer.Serialize(vertex)
	if err != nil {
		return fmt.Errorf("failed to serialize vertex %v: %w", vertex.ID, err)
	}
	if path[id] {
		t.listWriter.AppendItem(item + CycleMarker)
		return nil
	}
	t.listWriter.AppendItem(item)

	path[id] = true
	defer delete(path, id)
	for _, child := range t.children(vertex) {
		t.listWriter.Indent()
		if err := t.traverse(ctx, child, path); err != nil {
			return err
		}
		t.listWriter.UnIndent()
	}
	return nil
}

// children returns the neighbors of vertex sorted by the order attribute if
// both carry one, otherwise by their key.
func (t *Renderer[T]) children(vertex *dag.Vertex[T]) []T {
	children := vertex.EdgeKeys()
	if t.orderAttribute == "" {
		return children
	}
	slices.SortStableFunc(children, func(a, b T) int {
		orderA, okA := t.graph.Vertices[a].Attributes[t.orderAttribute].(int)
		orderB, okB := t.graph.Vertices[b].Attributes[t.orderAttribute].(int)
		if okA && okB {
			return cmp.Compare(orderA, orderB)
		}
		return cmp.Compare(a, b)
	})
	return children
}
