package response

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/fetchsim/fetchsim"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/mapstructure"
)

// Response is the value a dispatch resolves with in place of a real HTTP response.
type Response struct {
	// Body is the canned payload declared on the route, nil when none was given.
	Body any

	// URL is the route key the response was built for.
	URL string

	// fields holds the expect entries declared for the method.
	fields map[string]any

	// methods backs Call; shared with every response built from the same set.
	methods *MethodSet
}

// Build creates a Response for url. The body and every expect field are
// deep-copied so the result shares no mutable state with the caller's inputs.
// A nil methods argument yields a response with only the built-in methods.
func Build(url string, body any, expect map[string]any, methods *MethodSet) (*Response, error) {
	if methods == nil {
		methods = NewMethodSet()
	}

	b, err := clone(body)
	if err != nil {
		return nil, fmt.Errorf("%w: body of %s: %w", fetchsim.ErrTypeMismatch, url, err)
	}

	fields := make(map[string]any, len(expect))
	for k, v := range expect {
		c, err := clone(v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s of %s: %w", fetchsim.ErrTypeMismatch, k, url, err)
		}
		fields[k] = c
	}

	return &Response{
		Body:    b,
		URL:     url,
		fields:  fields,
		methods: methods,
	}, nil
}

// Field returns the expect field stored under name.
func (r *Response) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Fields returns a copy of all expect fields.
func (r *Response) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Call runs the method registered under name against r.
func (r *Response) Call(name string) (any, error) {
	fn, ok := r.methods.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", fetchsim.ErrMethodNotFound, name)
	}
	return fn(r)
}

// JSON returns the body through the json method, which callers may override.
func (r *Response) JSON() (any, error) {
	return r.Call(JSONMethod)
}

// Methods lists the names callable on r.
func (r *Response) Methods() []string {
	return r.methods.Names()
}

// Decode reads the body through JSON and decodes it into out, which must be
// a pointer to a map or struct.
func (r *Response) Decode(out any) error {
	v, err := r.JSON()
	if err != nil {
		return err
	}
	if err := mapstructure.Decode(v, out); err != nil {
		return errors.Join(fmt.Errorf("%w: could not decode body of %s", fetchsim.ErrTypeMismatch, r.URL), err)
	}
	return nil
}

// clone deep-copies v. Maps and slices go through copier; pointers, arrays and
// structs are rebuilt so none of their reachable maps, slices or pointers are
// shared. Scalars are returned as they are.
func clone(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.Clone(t), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return v, nil
		}
		dst := reflect.New(rv.Type())
		if err := copier.CopyWithOption(dst.Interface(), v, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("failed to copy %T: %w", v, err)
		}
		return dst.Elem().Interface(), nil

	case reflect.Ptr:
		if rv.IsNil() {
			return v, nil
		}
		dst := reflect.New(rv.Type().Elem())
		if err := cloneInto(dst.Elem(), rv.Elem()); err != nil {
			return nil, err
		}
		return dst.Interface(), nil

	case reflect.Array, reflect.Struct:
		dst := reflect.New(rv.Type()).Elem()
		if err := cloneInto(dst, rv); err != nil {
			return nil, err
		}
		return dst.Interface(), nil

	default:
		return v, nil
	}
}

// cloneInto stores a deep copy of src in the settable dst. Unexported struct
// fields are copied by value since they cannot be reached from outside.
func cloneInto(dst, src reflect.Value) error {
	switch src.Kind() {
	case reflect.Struct:
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if !src.Type().Field(i).IsExported() {
				continue
			}
			if err := cloneValue(dst.Field(i), src.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			if err := cloneValue(dst.Index(i), src.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return cloneValue(dst, src)
	}
}

func cloneValue(dst, src reflect.Value) error {
	if src.Kind() == reflect.Interface && src.IsNil() {
		return nil
	}
	c, err := clone(src.Interface())
	if err != nil {
		return err
	}
	if c != nil {
		dst.Set(reflect.ValueOf(c))
	}
	return nil
}
