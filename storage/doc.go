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

// Package storage provides the storage abstraction layer for the curator.
//
// The only persistent state in the engine is the embedding cache: vectors
// computed for message content, keyed by embedding model id and message id.
// Each entry records a hash of the embedded content, so a message whose text
// changed is treated as a miss instead of returning a stale vector.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to keep consumers decoupled
// from BadgerDB:
//
//	cache, err := badger.NewEmbeddingCache(backend)  // returns storage.EmbeddingCache
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache, err := badger.NewEmbeddingCache(backend)
//	defer cache.Close()
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryEmbeddingCache()
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
