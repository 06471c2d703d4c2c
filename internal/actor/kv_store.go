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

package actor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// ensure KVStore implements Store at compile time.
var _ Store = (*KVStore)(nil)

const (
	actorPrefix = "actor."
	emailPrefix = "email."
	phonePrefix = "phone."

	// danglingGrace covers the window in which Create has written an index
	// but not yet the record it points to.
	danglingGrace = time.Minute
)

// KVStore implements Store backed by a NATS KeyValue bucket. Email and
// phone uniqueness is enforced with index keys written through Create.
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

func actorKey(id string) string {
	return actorPrefix + id
}

func emailKey(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return emailPrefix + hex.EncodeToString(sum[:])
}

func phoneKey(phone string) string {
	return phonePrefix + phone
}

// Get retrieves an actor by ID.
func (s *KVStore) Get(
	_ context.Context,
	id string,
) (*Actor, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	kve, err := s.kv.Get(actorKey(id))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get actor: %w", err)
	}

	var a Actor
	if err := json.Unmarshal(kve.Value(), &a); err != nil {
		return nil, fmt.Errorf("unmarshal actor: %w", err)
	}

	return &a, nil
}

// GetByEmail resolves the email index and loads the actor.
func (s *KVStore) GetByEmail(
	ctx context.Context,
	email string,
) (*Actor, error) {
	if NormalizeEmail(email) == "" {
		return nil, ErrNotFound
	}
	return s.getByIndex(ctx, emailKey(email))
}

// GetByPhone resolves the phone index and loads the actor.
func (s *KVStore) GetByPhone(
	ctx context.Context,
	phone string,
) (*Actor, error) {
	if phone == "" {
		return nil, ErrNotFound
	}
	return s.getByIndex(ctx, phoneKey(phone))
}

func (s *KVStore) getByIndex(
	ctx context.Context,
	key string,
) (*Actor, error) {
	kve, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get actor index: %w", err)
	}

	a, err := s.Get(ctx, string(kve.Value()))
	if errors.Is(err, ErrNotFound) {
		s.reclaimIndex(kve)
	}
	return a, err
}

// reclaimIndex removes an index entry whose record is gone so the email or
// phone can be registered again. Entries younger than danglingGrace may
// belong to a Create in progress and are left alone.
func (s *KVStore) reclaimIndex(
	kve nats.KeyValueEntry,
) {
	if s.now().Sub(kve.Created()) < danglingGrace {
		return
	}

	err := s.kv.Delete(kve.Key(), nats.LastRevision(kve.Revision()))
	if err != nil {
		s.logger.Warn(
			"failed to reclaim dangling actor index",
			slog.String("key", kve.Key()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Warn(
		"reclaimed dangling actor index",
		slog.String("key", kve.Key()),
	)
}

// Create persists a new actor.
func (s *KVStore) Create(
	_ context.Context,
	a *Actor,
) error {
	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate actor id: %w", err)
		}
		a.ID = id.String()
	}
	a.Email = NormalizeEmail(a.Email)
	now := s.now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	indexes := make([]string, 0, 2)
	if a.Email != "" {
		indexes = append(indexes, emailKey(a.Email))
	}
	if a.Phone != "" {
		indexes = append(indexes, phoneKey(a.Phone))
	}

	created := make([]string, 0, len(indexes))
	for _, key := range indexes {
		if _, err := s.kv.Create(key, []byte(a.ID)); err != nil {
			s.deleteKeys(created)
			if errors.Is(err, nats.ErrKeyExists) {
				return ErrDuplicate
			}
			return fmt.Errorf("create actor index: %w", err)
		}
		created = append(created, key)
	}

	data, err := json.Marshal(a)
	if err != nil {
		s.deleteKeys(created)
		return fmt.Errorf("marshal actor: %w", err)
	}

	if _, err := s.kv.Create(actorKey(a.ID), data); err != nil {
		s.deleteKeys(created)
		if errors.Is(err, nats.ErrKeyExists) {
			return ErrDuplicate
		}
		return fmt.Errorf("create actor: %w", err)
	}

	return nil
}

// Update overwrites an existing actor, moving its indexes when the email
// or phone changed.
func (s *KVStore) Update(
	ctx context.Context,
	a *Actor,
) error {
	existing, err := s.Get(ctx, a.ID)
	if err != nil {
		return err
	}

	a.Email = NormalizeEmail(a.Email)
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = s.now().UTC()

	var added, stale []string
	if a.Email != existing.Email {
		if a.Email != "" {
			added = append(added, emailKey(a.Email))
		}
		if existing.Email != "" {
			stale = append(stale, emailKey(existing.Email))
		}
	}
	if a.Phone != existing.Phone {
		if a.Phone != "" {
			added = append(added, phoneKey(a.Phone))
		}
		if existing.Phone != "" {
			stale = append(stale, phoneKey(existing.Phone))
		}
	}

	created := make([]string, 0, len(added))
	for _, key := range added {
		if _, err := s.kv.Create(key, []byte(a.ID)); err != nil {
			s.deleteKeys(created)
			if errors.Is(err, nats.ErrKeyExists) {
				return ErrDuplicate
			}
			return fmt.Errorf("create actor index: %w", err)
		}
		created = append(created, key)
	}

	data, err := json.Marshal(a)
	if err != nil {
		s.deleteKeys(created)
		return fmt.Errorf("marshal actor: %w", err)
	}

	if _, err := s.kv.Put(actorKey(a.ID), data); err != nil {
		s.deleteKeys(created)
		return fmt.Errorf("put actor: %w", err)
	}

	s.deleteKeys(stale)

	return nil
}

// Delete removes an actor and its indexes.
func (s *KVStore) Delete(
	ctx context.Context,
	id string,
) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.kv.Delete(actorKey(id)); err != nil {
		return fmt.Errorf("delete actor: %w", err)
	}

	var indexes []string
	if existing.Email != "" {
		indexes = append(indexes, emailKey(existing.Email))
	}
	if existing.Phone != "" {
		indexes = append(indexes, phoneKey(existing.Phone))
	}
	s.deleteKeys(indexes)

	return nil
}

// List retrieves actors with pagination.
func (s *KVStore) List(
	_ context.Context,
	limit int,
	offset int,
) ([]Actor, int, error) {
	allKeys, err := s.kv.Keys()
	if err != nil {
		// nats.ErrNoKeysFound means the bucket is empty
		if errors.Is(err, nats.ErrNoKeysFound) {
			return []Actor{}, 0, nil
		}
		return nil, 0, fmt.Errorf("list actor keys: %w", err)
	}

	keys := make([]string, 0, len(allKeys))
	for _, k := range allKeys {
		if strings.HasPrefix(k, actorPrefix) {
			keys = append(keys, k)
		}
	}

	total := len(keys)

	// UUIDv7 ids sort by creation time; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	if offset >= total {
		return []Actor{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	actors := make([]Actor, 0, end-offset)
	for _, key := range keys[offset:end] {
		kve, err := s.kv.Get(key)
		if err != nil {
			s.logger.Warn(
				"failed to get actor",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		var a Actor
		if err := json.Unmarshal(kve.Value(), &a); err != nil {
			s.logger.Warn(
				"failed to unmarshal actor",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		actors = append(actors, a)
	}

	return actors, total, nil
}

// deleteKeys best-effort deletes index keys.
func (s *KVStore) deleteKeys(
	keys []string,
) {
	for _, key := range keys {
		if err := s.kv.Delete(key); err != nil {
			s.logger.Warn(
				"failed to remove actor index",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}
