package reconcile

import (
	"context"
	"errors"
	"iter"
	"sort"
	"sync"
)

const sheltered = "보호중"

func ptr(s string) *string { return &s }

type animal struct {
	ID     string
	State  *string
	Weight *string
	Tel    *string
	Note   *string
}

type animalPolicy struct{}

func (animalPolicy) Key(a *animal) string { return a.ID }

func (animalPolicy) IsChanged(stored, incoming *animal) bool {
	differs := func(s, i *string) bool {
		if i == nil {
			return false
		}
		return s == nil || *s != *i
	}
	return differs(stored.State, incoming.State) ||
		differs(stored.Weight, incoming.Weight) ||
		differs(stored.Tel, incoming.Tel)
}

func (animalPolicy) Merge(stored, incoming *animal) *animal {
	out := *stored
	pick := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	pick(&out.State, incoming.State)
	pick(&out.Weight, incoming.Weight)
	pick(&out.Tel, incoming.Tel)
	pick(&out.Note, incoming.Note)
	return &out
}

func (animalPolicy) IsProtected(a *animal) bool {
	return a.State != nil && *a.State == sheltered
}

type memStore struct {
	mu       sync.Mutex
	rows     map[string]*animal
	ops      []string
	failFind map[string]bool
	failPut  map[string]bool
	failDel  map[string]bool
	scanErr  error
}

func newMemStore(rows ...*animal) *memStore {
	s := &memStore{rows: map[string]*animal{}}
	for _, r := range rows {
		cp := *r
		s.rows[r.ID] = &cp
	}
	return s
}

func (s *memStore) FindByKey(_ context.Context, key string) (*animal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind[key] {
		return nil, false, errors.New("find failed")
	}
	r, ok := s.rows[key]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

func (s *memStore) Upsert(_ context.Context, a *animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut[a.ID] {
		return errors.New("upsert failed")
	}
	cp := *a
	s.rows[a.ID] = &cp
	s.ops = append(s.ops, "upsert:"+a.ID)
	return nil
}

func (s *memStore) Delete(_ context.Context, a *animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel[a.ID] {
		return errors.New("delete failed")
	}
	delete(s.rows, a.ID)
	s.ops = append(s.ops, "delete:"+a.ID)
	return nil
}

func (s *memStore) ScanAll(_ context.Context) ([]*animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	s.ops = append(s.ops, "scan")
	keys := make([]string, 0, len(s.rows))
	for k := range s.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*animal, 0, len(keys))
	for _, k := range keys {
		cp := *s.rows[k]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) get(key string) *animal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[key]
}

type item struct {
	a   *animal
	err error
}

type fakeSource struct {
	parts []string
	items map[string][]item
}

func (f *fakeSource) Name() string         { return "animals" }
func (f *fakeSource) Partitions() []string { return f.parts }

func (f *fakeSource) Records(_ context.Context, partition string) iter.Seq2[*animal, error] {
	return func(yield func(*animal, error) bool) {
		for _, it := range f.items[partition] {
			if it.err != nil {
				if !yield(nil, it.err) || !IsRecordLocal(it.err) {
					return
				}
				continue
			}
			cp := *it.a
			if !yield(&cp, nil) {
				return
			}
		}
	}
}

func source(parts map[string][]*animal, order ...string) *fakeSource {
	f := &fakeSource{parts: order, items: map[string][]item{}}
	for p, as := range parts {
		for _, a := range as {
			f.items[p] = append(f.items[p], item{a: a})
		}
	}
	return f
}

type captureNotifier struct {
	changes []Change
	err     error
}

func (c *captureNotifier) Notify(_ context.Context, changes []Change) error {
	c.changes = append(c.changes, changes...)
	return c.err
}
