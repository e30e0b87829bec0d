package container

import (
	"reflect"
	"sync"
)

// reflectionCache caches the injectable fields of struct types so that
// repeated construction of the same type skips field analysis.
type reflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

// fieldInfo stores metadata about a struct field tagged for injection.
type fieldInfo struct {
	index   int
	name    string
	typ     reflect.Type
	options tagOptions
}

func newReflectionCache() *reflectionCache {
	return &reflectionCache{
		fields: make(map[reflect.Type][]fieldInfo),
	}
}

// injectableFields returns the exported, inject-tagged fields of a struct type.
func (rc *reflectionCache) injectableFields(typ reflect.Type) []fieldInfo {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	rc.mu.RLock()
	fields, exists := rc.fields[typ]
	rc.mu.RUnlock()
	if exists {
		return fields
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if fields, exists = rc.fields[typ]; exists {
		return fields
	}

	if typ.Kind() == reflect.Struct {
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			tag, ok := field.Tag.Lookup("inject")
			if !ok || field.PkgPath != "" {
				continue
			}
			opts := parseInjectTag(tag)
			if opts.skip {
				continue
			}
			fields = append(fields, fieldInfo{
				index:   i,
				name:    field.Name,
				typ:     field.Type,
				options: opts,
			})
		}
	}

	rc.fields[typ] = fields
	return fields
}
