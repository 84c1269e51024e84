// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/curator/core"
)

// Layout: content hash (varint uint64), cached-at unix micros (varint int64),
// vector length (varint uint64), vector elements (raw float32).

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(id), nil
}

// MarshalString serializes a length-prefixed string.
func MarshalString(s string) []byte {
	buf := make([]byte, ord.String.Size(s))
	ord.String.Marshal(s, buf)
	return buf
}

// UnmarshalString deserializes a length-prefixed string.
func UnmarshalString(data []byte) (string, error) {
	s, _, err := ord.String.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return s, nil
}

// MarshalCachedEmbedding serializes a CachedEmbedding to bytes.
func MarshalCachedEmbedding(entry *CachedEmbedding) []byte {
	hash := uint64(entry.ContentHash)
	cachedAt := entry.CachedAt.UnixMicro()
	length := uint64(len(entry.Vector))

	size := varint.Uint64.Size(hash) + varint.Int64.Size(cachedAt) + varint.Uint64.Size(length)
	for _, v := range entry.Vector {
		size += raw.Float32.Size(v)
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(hash, buf)
	n += varint.Int64.Marshal(cachedAt, buf[n:])
	n += varint.Uint64.Marshal(length, buf[n:])
	for _, v := range entry.Vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalCachedEmbedding deserializes a CachedEmbedding from bytes.
func UnmarshalCachedEmbedding(data []byte) (*CachedEmbedding, error) {
	hash, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: content hash: %w", ErrSerializationFailed, err)
	}
	cachedAt, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: cached at: %w", ErrSerializationFailed, err)
	}
	n += m
	length, m, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	n += m
	if uint64(len(data)-n) < length*4 {
		return nil, fmt.Errorf("%w: vector needs %d elements", ErrTruncatedData, length)
	}

	vector := make([]float32, length)
	for i := range vector {
		vector[i], m, err = raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector element %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
	}

	return &CachedEmbedding{
		ContentHash: core.ID(hash),
		Vector:      vector,
		CachedAt:    time.UnixMicro(cachedAt).UTC(),
	}, nil
}
