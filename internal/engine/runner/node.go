package runner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gauntlet/internal/adapters/shell"
	"go.trai.ch/gauntlet/internal/core/ports"
)

// NodeID is the unique identifier for the runner Graft node.
const NodeID graft.ID = "engine.runner"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Runner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(executor), nil
		},
	})
}
