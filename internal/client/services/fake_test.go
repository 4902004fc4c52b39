package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

// fakeAPI implements Requester. Responses are raw JSON keyed by
// "METHOD path"; errs short-circuits with an error.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]string
	errs      map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeAPI) on(method, path, body string) *fakeAPI {
	f.responses[method+" "+path] = body
	return f
}

func (f *fakeAPI) fail(method, path string, err error) *fakeAPI {
	f.errs[method+" "+path] = err
	return f
}

func (f *fakeAPI) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	c := call{Method: method, Path: path, Query: query}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		c.Body = string(b)
	}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	key := method + " " + path
	err := f.errs[key]
	resp, ok := f.responses[key]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if out == nil || !ok {
		return nil
	}
	return json.Unmarshal([]byte(resp), out)
}

func (f *fakeAPI) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
