package types

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Class names known to the shell.
const (
	ClassBaseModel = "BaseModel"
	ClassUser      = "User"
	ClassState     = "State"
	ClassCity      = "City"
	ClassAmenity   = "Amenity"
	ClassPlace     = "Place"
	ClassReview    = "Review"
)

// ClassDescriptor describes one record type. Parent names the class this one
// specializes; the root class has an empty Parent.
type ClassDescriptor struct {
	Name   string
	Parent string
}

// Registry maps class names to their descriptors. It is built once and never
// mutated afterwards.
type Registry struct {
	classes map[string]ClassDescriptor
	now     func() time.Time
	newID   func() string
}

// NewRegistry builds a Registry from descriptors. Every Parent must name a
// descriptor in the same call.
func NewRegistry(classes ...ClassDescriptor) (*Registry, error) {
	r := &Registry{
		classes: make(map[string]ClassDescriptor, len(classes)),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, c := range classes {
		if c.Name == "" {
			return nil, fmt.Errorf("registry: empty class name")
		}
		if _, dup := r.classes[c.Name]; dup {
			return nil, fmt.Errorf("registry: class %q registered twice", c.Name)
		}
		r.classes[c.Name] = c
	}
	for _, c := range classes {
		if c.Parent == "" {
			continue
		}
		if _, ok := r.classes[c.Parent]; !ok {
			return nil, fmt.Errorf("registry: class %q has unknown parent %q", c.Name, c.Parent)
		}
	}
	return r, nil
}

// DefaultRegistry returns the registry of the hbnb record classes.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		ClassDescriptor{Name: ClassBaseModel},
		ClassDescriptor{Name: ClassUser, Parent: ClassBaseModel},
		ClassDescriptor{Name: ClassState, Parent: ClassBaseModel},
		ClassDescriptor{Name: ClassCity, Parent: ClassBaseModel},
		ClassDescriptor{Name: ClassAmenity, Parent: ClassBaseModel},
		ClassDescriptor{Name: ClassPlace, Parent: ClassBaseModel},
		ClassDescriptor{Name: ClassReview, Parent: ClassBaseModel},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether name is a registered class.
func (r *Registry) Has(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsA reports whether class is ancestor or inherits from it.
func (r *Registry) IsA(class, ancestor string) bool {
	for class != "" {
		if class == ancestor {
			return true
		}
		c, ok := r.classes[class]
		if !ok {
			return false
		}
		class = c.Parent
	}
	return false
}

// New creates a record of the given class with a fresh id and both
// timestamps set to the current time.
// Returns ErrUnknownClass if the class is not registered.
func (r *Registry) New(class string) (*Record, error) {
	if !r.Has(class) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	now := r.now()
	return NewRecord(class, r.newID(), now, now), nil
}
