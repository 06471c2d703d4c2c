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

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/cavakil/backoffice/internal/permission"
)

// ensure KVStore implements Store at compile time.
var _ Store = (*KVStore)(nil)

// KVStore implements Store backed by a NATS KeyValue bucket keyed
// <resource>.<id>.
type KVStore struct {
	kv     nats.KeyValue
	logger *slog.Logger
	now    func() time.Time
}

// NewKVStore creates a new KVStore.
func NewKVStore(
	logger *slog.Logger,
	kv nats.KeyValue,
) *KVStore {
	return &KVStore{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

func documentKey(
	res permission.Resource,
	id string,
) string {
	return string(res) + "." + id
}

// Get retrieves a document by resource and ID.
func (s *KVStore) Get(
	_ context.Context,
	res permission.Resource,
	id string,
) (*Document, error) {
	if id == "" || !Managed(res) {
		return nil, ErrNotFound
	}

	kve, err := s.kv.Get(documentKey(res, id))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(kve.Value(), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	return &doc, nil
}

// Create persists a new document, assigning its ID and timestamps.
func (s *KVStore) Create(
	_ context.Context,
	doc *Document,
) error {
	if !Managed(doc.Resource) {
		return fmt.Errorf("unsupported content resource: %s", doc.Resource)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate document id: %w", err)
	}
	doc.ID = id.String()
	now := s.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := s.kv.Create(documentKey(doc.Resource, doc.ID), data); err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// Update replaces the data of an existing document.
func (s *KVStore) Update(
	ctx context.Context,
	doc *Document,
) error {
	existing, err := s.Get(ctx, doc.Resource, doc.ID)
	if err != nil {
		return err
	}

	doc.CreatedAt = existing.CreatedAt
	doc.CreatedBy = existing.CreatedBy
	doc.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := s.kv.Put(documentKey(doc.Resource, doc.ID), data); err != nil {
		return fmt.Errorf("put document: %w", err)
	}

	return nil
}

// Delete removes a document.
func (s *KVStore) Delete(
	ctx context.Context,
	res permission.Resource,
	id string,
) error {
	if _, err := s.Get(ctx, res, id); err != nil {
		return err
	}

	if err := s.kv.Delete(documentKey(res, id)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	return nil
}

// List retrieves documents of one resource with pagination.
func (s *KVStore) List(
	_ context.Context,
	res permission.Resource,
	limit int,
	offset int,
) ([]Document, int, error) {
	if !Managed(res) {
		return nil, 0, fmt.Errorf("unsupported content resource: %s", res)
	}

	allKeys, err := s.kv.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return []Document{}, 0, nil
		}
		return nil, 0, fmt.Errorf("list document keys: %w", err)
	}

	prefix := string(res) + "."
	keys := make([]string, 0, len(allKeys))
	for _, k := range allKeys {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	total := len(keys)
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	if offset >= total {
		return []Document{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	docs := make([]Document, 0, end-offset)
	for _, key := range keys[offset:end] {
		kve, err := s.kv.Get(key)
		if err != nil {
			s.logger.Warn(
				"failed to get document",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		var doc Document
		if err := json.Unmarshal(kve.Value(), &doc); err != nil {
			s.logger.Warn(
				"failed to unmarshal document",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		docs = append(docs, doc)
	}

	return docs, total, nil
}
