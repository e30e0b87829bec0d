package container

import (
	"sync"

	"github.com/toutaio/toutago-direg/registry"
)

// singletonInstance holds a singleton value and ensures it's created only once.
type singletonInstance struct {
	value interface{}
	err   error
	once  sync.Once
}

// singletonCache manages singleton instances with thread-safe lazy initialization.
// Instances are kept per binding, so two bindings of one key never share one.
type singletonCache struct {
	instances map[*registry.Binding]*singletonInstance
	mu        sync.RWMutex
}

// newSingletonCache creates a new singleton cache.
func newSingletonCache() *singletonCache {
	return &singletonCache{
		instances: make(map[*registry.Binding]*singletonInstance),
	}
}

// getOrCreate retrieves an existing singleton or creates it using the provided factory.
// The factory is called exactly once per binding, even under concurrent access.
//
// This method is goroutine-safe.
func (sc *singletonCache) getOrCreate(binding *registry.Binding, factory func() (interface{}, error)) (interface{}, error) {
	sc.mu.RLock()
	instance, exists := sc.instances[binding]
	sc.mu.RUnlock()

	if !exists {
		sc.mu.Lock()
		// Double-check after acquiring write lock
		instance, exists = sc.instances[binding]
		if !exists {
			instance = &singletonInstance{}
			sc.instances[binding] = instance
		}
		sc.mu.Unlock()
	}

	instance.once.Do(func() {
		instance.value, instance.err = factory()
	})

	return instance.value, instance.err
}
