package scm

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Location is the container a returned resource lives in.
type Location struct {
	Folder  string `json:"folder,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Device  string `json:"device,omitempty"`
}

// Resource holds the fields every configuration resource returns.
type Resource struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Location
}

func (r Resource) resource() Resource { return r }

// predefinedSnippet marks built-in entries that may have no id.
const predefinedSnippet = "predefined"

// object is satisfied by every response model through the embedded Resource.
type object interface {
	resource() Resource
}

// Container selects exactly one folder, snippet or device. It scopes List
// and Fetch, and request models embed it for Create and Update. A nil
// field is omitted; a set field must not be empty.
type Container struct {
	Folder  *string `json:"folder,omitempty" validate:"omitempty,max=64,scmcontainer"`
	Snippet *string `json:"snippet,omitempty" validate:"omitempty,max=64,scmcontainer"`
	Device  *string `json:"device,omitempty" validate:"omitempty,max=64,scmcontainer"`
}

// InFolder selects a folder.
func InFolder(name string) Container { return Container{Folder: &name} }

// InSnippet selects a snippet.
func InSnippet(name string) Container { return Container{Snippet: &name} }

// OnDevice selects a device.
func OnDevice(name string) Container { return Container{Device: &name} }

// String returns a pointer to s.
func String(s string) *string { return &s }

type containerField struct {
	name  string
	value *string
}

func (c Container) fields() []containerField {
	return []containerField{
		{"folder", c.Folder},
		{"snippet", c.Snippet},
		{"device", c.Device},
	}
}

// resolve validates the container and returns the selected field and value.
// An empty value is a MissingQueryParameterError; zero or several set
// fields are an InvalidObjectError.
func (c Container) resolve() (field, value string, err error) {
	set := 0
	for _, f := range c.fields() {
		if f.value == nil {
			continue
		}
		if *f.value == "" {
			return "", "", missingQueryParameter(f.name)
		}
		set++
		field, value = f.name, *f.value
	}
	if set != 1 {
		return "", "", errContainerCount()
	}
	return field, value, nil
}

// containerOf returns the container embedded in req, if any.
func containerOf(req any) (Container, bool) {
	r, ok := req.(interface{ container() Container })
	if !ok {
		return Container{}, false
	}
	return r.container(), true
}

func (c Container) container() Container { return c }

// params returns the query parameters for a resolved container.
func (c Container) params() (url.Values, error) {
	field, value, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return url.Values{field: {value}}, nil
}

// matches reports whether l is exactly the given container.
func (l Location) matches(field, value string) bool {
	switch field {
	case "folder":
		return l.Folder == value
	case "snippet":
		return l.Snippet == value
	case "device":
		return l.Device == value
	default:
		return false
	}
}

func errContainerCount() *InvalidObjectError {
	return invalidObject(http.StatusBadRequest,
		"Exactly one of 'folder', 'snippet', or 'device' must be provided.",
		map[string]any{"error": "Invalid container parameters"},
	)
}
