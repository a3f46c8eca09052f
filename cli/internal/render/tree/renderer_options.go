package tree

import (
	"cmp"

	"ocm.software/open-component-model/bindle/bindings/go/dag"
)

// RendererOptions defines the options for the tree Renderer.
type RendererOptions[T cmp.Ordered] struct {
	// VertexSerializer serializes a vertex into a list item.
	VertexSerializer VertexSerializer[T]
	// Roots are the root vertices of the tree to render.
	Roots []T
	// OrderAttribute names an int vertex attribute that orders siblings.
	OrderAttribute string
}

// RendererOption is a function that modifies the RendererOptions.
type RendererOption[T cmp.Ordered] func(*RendererOptions[T])

// WithRoots sets the roots for the Renderer.
func WithRoots[T cmp.Ordered](roots ...T) RendererOption[T] {
	return func(opts *RendererOptions[T]) {
		opts.Roots = roots
	}
}

// WithOrderAttribute orders siblings by the given int vertex attribute.
func WithOrderAttribute[T cmp.Ordered](attribute string) RendererOption[T] {
	return func(opts *RendererOptions[T]) {
		opts.OrderAttribute = attribute
	}
}

// WithVertexSerializerFunc sets the VertexSerializer based on a function.
func WithVertexSerializerFunc[T cmp.Ordered](serializerFunc func(*dag.Vertex[T]) (string, error)) RendererOption[T] {
	return func(opts *RendererOptions[T]) {
		opts.VertexSerializer = VertexSerializerFunc[T](serializerFunc)
	}
}
