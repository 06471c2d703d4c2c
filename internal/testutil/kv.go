// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package testutil provides in-memory stand-ins for external stores used in
// package tests.
package testutil

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// MemoryKV is an in-memory nats.KeyValue covering the subset of methods the
// stores call. Unimplemented methods panic through the nil embedded
// interface.
type MemoryKV struct {
	nats.KeyValue

	mu       sync.Mutex
	bucket   string
	data     map[string][]byte
	revision uint64

	// Errors injected per operation and key. A KeysErr is returned from Keys.
	GetErr    map[string]error
	PutErr    map[string]error
	CreateErr map[string]error
	DeleteErr map[string]error
	KeysErr   error

	// Created holds the creation time reported by entries. Keys without
	// one report the zero time.
	Created map[string]time.Time
}

// NewMemoryKV creates an empty bucket.
func NewMemoryKV(
	bucket string,
) *MemoryKV {
	return &MemoryKV{
		bucket:    bucket,
		data:      make(map[string][]byte),
		GetErr:    make(map[string]error),
		PutErr:    make(map[string]error),
		CreateErr: make(map[string]error),
		DeleteErr: make(map[string]error),
		Created:   make(map[string]time.Time),
	}
}

var validKeyRe = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

// validKey applies the key rules enforced by the NATS client.
func validKey(
	key string,
) bool {
	return validKeyRe.MatchString(key) &&
		!strings.HasPrefix(key, ".") &&
		!strings.HasSuffix(key, ".")
}

// Bucket returns the bucket name.
func (m *MemoryKV) Bucket() string {
	return m.bucket
}

// Get returns the entry for key or nats.ErrKeyNotFound.
func (m *MemoryKV) Get(
	key string,
) (nats.KeyValueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validKey(key) {
		return nil, nats.ErrInvalidKey
	}

	if err := m.GetErr[key]; err != nil {
		return nil, err
	}

	v, ok := m.data[key]
	if !ok {
		return nil, nats.ErrKeyNotFound
	}

	return &memoryEntry{
		bucket:   m.bucket,
		key:      key,
		value:    v,
		revision: m.revision,
		created:  m.Created[key],
	}, nil
}

// Put stores value under key.
func (m *MemoryKV) Put(
	key string,
	value []byte,
) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validKey(key) {
		return 0, nats.ErrInvalidKey
	}

	if err := m.PutErr[key]; err != nil {
		return 0, err
	}

	m.revision++
	m.data[key] = append([]byte(nil), value...)
	return m.revision, nil
}

// Create stores value only if key is absent.
func (m *MemoryKV) Create(
	key string,
	value []byte,
) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validKey(key) {
		return 0, nats.ErrInvalidKey
	}

	if err := m.CreateErr[key]; err != nil {
		return 0, err
	}

	if _, ok := m.data[key]; ok {
		return 0, nats.ErrKeyExists
	}

	m.revision++
	m.data[key] = append([]byte(nil), value...)
	return m.revision, nil
}

// Delete removes key.
func (m *MemoryKV) Delete(
	key string,
	_ ...nats.DeleteOpt,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validKey(key) {
		return nats.ErrInvalidKey
	}

	if err := m.DeleteErr[key]; err != nil {
		return err
	}

	delete(m.data, key)
	return nil
}

// Keys lists all keys, or nats.ErrNoKeysFound when empty.
func (m *MemoryKV) Keys(
	_ ...nats.WatchOpt,
) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.KeysErr != nil {
		return nil, m.KeysErr
	}

	if len(m.data) == 0 {
		return nil, nats.ErrNoKeysFound
	}

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys, nil
}

// Has reports whether key is present.
func (m *MemoryKV) Has(
	key string,
) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.data[key]
	return ok
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.data)
}

type memoryEntry struct {
	nats.KeyValueEntry

	bucket   string
	key      string
	value    []byte
	revision uint64
	created  time.Time
}

func (e *memoryEntry) Bucket() string {
	return e.bucket
}

func (e *memoryEntry) Key() string {
	return e.key
}

func (e *memoryEntry) Value() []byte {
	return e.value
}

func (e *memoryEntry) Revision() uint64 {
	return e.revision
}

func (e *memoryEntry) Created() time.Time {
	return e.created
}

func (e *memoryEntry) Operation() nats.KeyValueOp {
	return nats.KeyValuePut
}
