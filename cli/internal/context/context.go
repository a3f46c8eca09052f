package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindle/bindings/go/client"
	v1 "ocm.software/open-component-model/bindle/cli/configuration/v1"
)

type ctxKey string

const key ctxKey = "ocm.software/open-component-model/bindle/cli/internal/context"

// Context is the bindle command line context.
// It contains pointers to centrally managed structures that are created
// once in the persistent pre-run hook and used by many commands at once.
// Note that they integrate with context.Context, but are only passed as pointers
// so that access is always done at O(1) lookup time.
type Context struct {
	mu sync.RWMutex

	// configuration is the merged configuration of files, environment and flags.
	// In case the config is not set, default values should be used.
	configuration *v1.Config

	// connection describes the bindle server to talk to. It is nil if no
	// server was configured, in which case only local invoice files can be used.
	connection *client.ConnectionInfo
}

// WithConfiguration creates a new context with the given configuration.
// After this function is called, the configuration can be retrieved from the context
// using [FromContext] and [Context.Configuration].
func WithConfiguration(ctx context.Context, cfg *v1.Config) context.Context {
	ctx, bindlectx := retrieveOrCreateContext(ctx)
	bindlectx.mu.Lock()
	defer bindlectx.mu.Unlock()
	bindlectx.configuration = cfg
	return ctx
}

// WithConnection creates a new context with the given connection info.
// After this function is called, the connection can be retrieved from the context
// using [FromContext] and [Context.Connection].
func WithConnection(ctx context.Context, info *client.ConnectionInfo) context.Context {
	ctx, bindlectx := retrieveOrCreateContext(ctx)
	bindlectx.mu.Lock()
	defer bindlectx.mu.Unlock()
	bindlectx.connection = info
	return ctx
}

// Register registers the command to contain a new Context object.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreateContext(cmd.Context())
	cmd.SetContext(ctx)
}

func (ctx *Context) Configuration() *v1.Config {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.configuration
}

func (ctx *Context) Connection() *client.ConnectionInfo {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.connection
}

// FromContext retrieves the bindle context from the given context.
// If the bindle context does not exist, it returns nil.
// Within a command or subcommand which was registered with [Register],
// the context is always available and guaranteed to be present.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}

	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// WithContext creates a new context with the given bindle context.
func WithContext(ctx context.Context, c *Context) context.Context {
	if c == nil {
		return nil
	}
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreateContext(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	bindlectx := FromContext(ctx)
	if bindlectx == nil {
		bindlectx = &Context{}
		ctx = WithContext(ctx, bindlectx)
	}
	return ctx, bindlectx
}
