// internal/app/system/docstore/memory.go
package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operation names passed to a Memory fault hook.
const (
	OpGet    = "get"
	OpExists = "exists"
	OpSet    = "set"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
	OpQuery  = "query"
	OpCount  = "count"
	OpPing   = "ping"
)

// FaultFunc may fail an operation before it touches the data. id is empty
// for collection-level operations.
type FaultFunc func(op, coll, id string) error

// Memory is an in-process Store. Documents are kept as BSON so that field
// names, filters and decoding behave as they do against MongoDB.
// Atomic runs fn directly: writes are sequential, never rolled back.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]map[string]bson.Raw
	fault FaultFunc
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{colls: make(map[string]map[string]bson.Raw)}
}

// SetFault installs (or clears, with nil) a fault hook.
func (s *Memory) SetFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

func (s *Memory) check(op, coll, id string) error {
	s.mu.RLock()
	f := s.fault
	s.mu.RUnlock()
	if f == nil {
		return nil
	}
	return f(op, coll, id)
}

func (s *Memory) Get(ctx context.Context, coll, id string, out any) error {
	if err := s.check(OpGet, coll, id); err != nil {
		return err
	}
	s.mu.RLock()
	raw, ok := s.colls[coll][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return bson.Unmarshal(raw, out)
}

func (s *Memory) Exists(ctx context.Context, coll, id string) (bool, error) {
	if err := s.check(OpExists, coll, id); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.colls[coll][id]
	return ok, nil
}

func (s *Memory) Set(ctx context.Context, coll, id string, doc any) error {
	if err := s.check(OpSet, coll, id); err != nil {
		return err
	}
	raw, err := encodeWithID(doc, id)
	if err != nil {
		return err
	}
	s.put(coll, id, raw)
	return nil
}

func (s *Memory) Add(ctx context.Context, coll string, doc any) (string, error) {
	if err := s.check(OpAdd, coll, ""); err != nil {
		return "", err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	raw, err := encodeWithID(doc, id)
	if err != nil {
		return "", err
	}
	s.put(coll, id, raw)
	return id, nil
}

func (s *Memory) Update(ctx context.Context, coll, id string, fields map[string]any) error {
	if err := s.check(OpUpdate, coll, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.colls[coll][id]
	if !ok {
		return ErrNotFound
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	updated, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	s.colls[coll][id] = updated
	return nil
}

func (s *Memory) Delete(ctx context.Context, coll, id string) error {
	if err := s.check(OpDelete, coll, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.colls[coll], id)
	return nil
}

func (s *Memory) Query(ctx context.Context, coll string, q Query, out any) error {
	if err := s.check(OpQuery, coll, ""); err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("docstore: query out must be a pointer to a slice, got %T", out)
	}

	type row struct {
		raw bson.Raw
		m   bson.M
	}
	s.mu.RLock()
	rows := make([]row, 0, len(s.colls[coll]))
	for _, raw := range s.colls[coll] {
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			s.mu.RUnlock()
			return err
		}
		if matches(m, q.Filters) {
			rows = append(rows, row{raw: raw, m: m})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range q.Order {
			c := compareValues(rows[i].m[o.Field], rows[j].m[o.Field])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		// Stable output for equal keys.
		return compareValues(rows[i].m["_id"], rows[j].m["_id"]) < 0
	})

	slice := rv.Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(rows))
	for _, r := range rows {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(r.raw, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}

func (s *Memory) Count(ctx context.Context, coll string, filters ...Filter) (int64, error) {
	if err := s.check(OpCount, coll, ""); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, raw := range s.colls[coll] {
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			return 0, err
		}
		if matches(m, filters) {
			n++
		}
	}
	return n, nil
}

// Ping succeeds unless a fault hook fails OpPing.
func (s *Memory) Ping(ctx context.Context) error {
	return s.check(OpPing, "", "")
}

func (s *Memory) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Memory) put(coll, id string, raw bson.Raw) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.colls[coll]
	if !ok {
		c = make(map[string]bson.Raw)
		s.colls[coll] = c
	}
	c[id] = raw
}

func encodeWithID(doc any, id string) (bson.Raw, error) {
	m, err := toM(doc)
	if err != nil {
		return nil, err
	}
	m["_id"] = id
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal: %w", err)
	}
	return raw, nil
}

func matches(m bson.M, filters []Filter) bool {
	for _, f := range filters {
		if compareValues(m[f.Field], f.Value) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders nil < numbers < strings < bools < times, comparing
// numbers numerically regardless of their BSON width.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 1:
		fa, fb := number(a), number(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 3:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case 4:
		ta, tb := timeOf(a), timeOf(b)
		return ta.Compare(tb)
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return 1
	case string:
		return 2
	case bool:
		return 3
	case time.Time, primitive.DateTime:
		return 4
	}
	return 5
}

func number(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func timeOf(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}
