package arbiter

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
)

// Registry caches one Schema per Go type. Schemas are built on first use and
// kept for the lifetime of the Registry; reads of a cached schema take no
// lock.
type Registry struct {
	schemas *xsync.Map[reflect.Type, *Schema]
	log     zerolog.Logger
	arrays  bool
}

// Default is the process-wide registry used by the package-level helpers.
var Default = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	o := newOptions(opts)
	return &Registry{
		schemas: xsync.NewMap[reflect.Type, *Schema](),
		log:     o.logger,
		arrays:  o.arrays,
	}
}

// Register builds and caches the schema of v's type. Registering a type that
// is already cached returns the cached schema.
func (reg *Registry) Register(v any) (*Schema, error) {
	obj, err := asObject("register", v)
	if err != nil {
		return nil, err
	}
	return reg.schemaFor(obj)
}

// Lookup returns the cached schema of v's type without building it.
func (reg *Registry) Lookup(v any) (*Schema, bool) {
	if v == nil {
		return nil, false
	}
	return reg.schemas.Load(reflect.TypeOf(v))
}

// Len returns the number of cached schemas.
func (reg *Registry) Len() int {
	return reg.schemas.Size()
}

// schemaFor loads the schema of obj's type, building it on first use.
// Concurrent first uses of one type build it once; a failed build caches
// nothing.
func (reg *Registry) schemaFor(obj Object) (*Schema, error) {
	key := reflect.TypeOf(obj)

	// Fast path: cached schemas are read without computing.
	if s, ok := reg.schemas.Load(key); ok {
		return s, nil
	}

	var buildErr error
	s, loaded := reg.schemas.LoadOrCompute(key, func() (*Schema, bool) {
		s, err := buildSchema(key.String(), obj)
		if err != nil {
			buildErr = err
			return nil, true
		}
		return s, false
	})
	if buildErr != nil {
		reg.log.Debug().Str("type", key.String()).Err(buildErr).Msg("schema rejected")
		return nil, buildErr
	}
	if !loaded {
		reg.log.Debug().
			Str("type", key.String()).
			Int("basic", len(s.basic)).
			Int("advanced", len(s.advanced)).
			Msg("schema registered")
	}
	return s, nil
}

// asObject checks the network-object marker.
func asObject(op string, v any) (Object, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, newError(KindNotANetworkObject, op, ErrNotANetworkObject, "%T does not implement arbiter.Object", v)
	}
	if rv := reflect.ValueOf(obj); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, newError(KindNotANetworkObject, op, ErrNotANetworkObject, "nil %T", v)
	}
	return obj, nil
}
