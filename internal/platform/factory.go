package platform

import (
	"fmt"

	"github.com/aretw0/graft/pkg/adapters/fs"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/core"
)

// New assembles a service around the graph document at graphPath. An empty
// path requires WithGraph.
func New(graphPath string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	graph := o.graph
	if graph == nil {
		if graphPath == "" {
			return nil, fmt.Errorf("no graph: provide a graph document path or WithGraph")
		}
		g, err := memory.Load(graphPath)
		if err != nil {
			return nil, err
		}
		graph = g
	}

	store := o.store
	if store == nil && o.storeDir != "" {
		serializers, err := resolveSerializers(o.serializers)
		if err != nil {
			return nil, err
		}
		store = fs.NewStore(fs.Config{
			Dir:          o.storeDir,
			Logger:       o.logger,
			DefaultExt:   o.defaultExt,
			ErrorHandler: o.watcherErr,
			Serializers:  serializers,
		})
	}

	return core.NewService(graph, store, o.logger), nil
}

// resolveSerializers validates the facade-level 'any' registrations against
// the concrete adapter interface and merges them over the defaults.
func resolveSerializers(custom map[string]any) (map[string]fs.Serializer, error) {
	if len(custom) == 0 {
		return nil, nil
	}
	serializers := fs.DefaultSerializers()
	for ext, v := range custom {
		s, ok := v.(fs.Serializer)
		if !ok {
			return nil, fmt.Errorf("serializer for %q does not implement fs.Serializer", ext)
		}
		serializers[ext] = s
	}
	return serializers, nil
}
