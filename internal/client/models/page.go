package models

import (
	"bytes"
	"encoding/json"
)

// Page is one page of a Spring-style paged listing.
type Page[T any] struct {
	Content       []T `json:"content"`
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// pageFields has the layout of Page without its methods.
type pageFields[T any] Page[T]

// UnmarshalJSON accepts a bare array as a single page.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Content: items, Size: len(items), TotalElements: len(items), TotalPages: 1}
		return nil
	}

	var v pageFields[T]
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v.TotalElements == 0 {
		v.TotalElements = len(v.Content)
	}
	if v.TotalPages == 0 && len(v.Content) > 0 {
		v.TotalPages = 1
	}
	*p = Page[T](v)
	return nil
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// List decodes either a bare JSON array or an object wrapping the array
// under one of the keys listing endpoints use.
type List[T any] []T

var listKeys = []string{"content", "items", "pending", "created", "createdStocks", "data"}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for _, k := range listKeys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	*l = nil
	return nil
}
