package openapi

import (
	"encoding/json"
	"net/http"
)

// NewSpec creates an empty 3.1 document with default components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddTag records a description for each named tag not yet present.
func (s *Spec) AddTag(names []string, description string) {
	for _, name := range names {
		exists := false
		for _, t := range s.Tags {
			if t.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			s.Tags = append(s.Tags, &Tag{Name: name, Description: description})
		}
	}
}

// AddOperation attaches op to path under the given HTTP method.
func (s *Spec) AddOperation(path, method string, op *Operation) {
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	}
}

// MarshalJSON renders the spec with indentation for readability.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler that serves pre-rendered spec bytes.
func ServeSpec(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
