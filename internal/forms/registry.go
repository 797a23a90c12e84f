package forms

import (
	"fmt"
	"sort"

	apperrors "fiscal-forum/internal/common/errors"
)

// Registry indexes the compiled forms by type and endpoint. It is read-only
// after construction.
type Registry struct {
	byType     map[string]*Form
	byEndpoint map[string]*Form
}

// NewRegistry compiles the built-in form definitions.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		byType:     make(map[string]*Form),
		byEndpoint: make(map[string]*Form),
	}
	for _, def := range definitions() {
		form, err := compile(def)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byType[form.Type]; dup {
			return nil, fmt.Errorf("duplicate form type %s", form.Type)
		}
		r.byType[form.Type] = form
		r.byEndpoint[form.Endpoint] = form
	}
	return r, nil
}

func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Get(formType string) (*Form, error) {
	form, ok := r.byType[formType]
	if !ok {
		return nil, apperrors.NewUnknownFormError(formType)
	}
	return form, nil
}

func (r *Registry) ByEndpoint(path string) (*Form, bool) {
	form, ok := r.byEndpoint[path]
	return form, ok
}

// List returns every form sorted by type.
func (r *Registry) List() []*Form {
	out := make([]*Form, 0, len(r.byType))
	for _, form := range r.byType {
		out = append(out, form)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
