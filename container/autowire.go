package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// tagOptions represents parsed options from an inject tag.
type tagOptions struct {
	skip     bool // Don't inject this field
	optional bool // Leave the field empty if no binding exists
}

// parseInjectTag parses an inject struct tag and returns options.
// Supported formats:
//   - `inject:""` - required injection
//   - `inject:"optional"` - optional injection
//   - `inject:"-"` - never injected
func parseInjectTag(tag string) tagOptions {
	opts := tagOptions{}

	if tag == "-" {
		opts.skip = true
		return opts
	}

	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == "optional" {
			opts.optional = true
		}
	}

	return opts
}

// AutoWire injects dependencies into the inject-tagged fields of a struct
// pointer. Interface fields and pointer-to-struct fields are resolved by
// their type.
//
// Example:
//
//	type Service struct {
//	    Logger Logger `inject:""`
//	    Cache  Cache  `inject:"optional"`
//	}
//
//	service := &Service{}
//	err := container.AutoWire(service)
func (c *Container) AutoWire(instance interface{}) error {
	return c.autoWire(instance, c, nil)
}

func (c *Container) autoWire(instance interface{}, r resolver, path []reflect.Type) error {
	if instance == nil {
		return fmt.Errorf("cannot auto-wire nil instance")
	}

	value := reflect.ValueOf(instance)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("AutoWire requires a pointer to struct, got %T", instance)
	}
	elem := value.Elem()

	for _, field := range c.reflectionCache.injectableFields(value.Type()) {
		if err := injectField(elem.Field(field.index), field, r, path); err != nil {
			return fmt.Errorf("failed to inject field %s: %w", field.name, err)
		}
	}

	return nil
}

// injectField injects a single field.
func injectField(target reflect.Value, field fieldInfo, r resolver, path []reflect.Type) error {
	if !target.CanSet() {
		return fmt.Errorf("field %s is not settable", field.name)
	}

	isStructPtr := field.typ.Kind() == reflect.Ptr && field.typ.Elem().Kind() == reflect.Struct
	if field.typ.Kind() != reflect.Interface && !isStructPtr {
		return fmt.Errorf("only interface and struct pointer fields can be injected, got %v", field.typ)
	}

	key := keyOf(field.typ)
	resolved, err := r.resolve(key, path)
	if err != nil {
		var notFound *BindingNotFoundError
		if field.options.optional && errors.As(err, &notFound) && notFound.Type == key {
			return nil
		}
		return err
	}

	resolvedValue := reflect.ValueOf(resolved)
	if !resolvedValue.Type().AssignableTo(field.typ) {
		return fmt.Errorf("resolved type %v is not assignable to field type %v",
			resolvedValue.Type(), field.typ)
	}

	target.Set(resolvedValue)
	return nil
}
