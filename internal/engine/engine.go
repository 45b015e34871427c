package engine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// Engine validates moves and advances state for one game type. The core
// never interprets state or payloads itself; it only hands them to the
// engine registered under the game type's name.
type Engine interface {
	Name() string
	InitialState() string
	Apply(state string, payload json.RawMessage) (string, entity.Result, error)
}

// Registry maps game type names to engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

func NewRegistry(engines ...Engine) *Registry {
	registry := &Registry{
		engines: make(map[string]Engine, len(engines)),
	}

	for _, eng := range engines {
		registry.Register(eng)
	}

	return registry
}

func (that *Registry) Register(eng Engine) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engines[eng.Name()] = eng
}

func (that *Registry) Lookup(name string) (Engine, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	eng, ok := that.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: no engine for %q", apperror.ErrGameTypeNotFound, name)
	}

	return eng, nil
}
