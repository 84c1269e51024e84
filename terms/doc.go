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

// Package terms turns text into term-frequency representations.
//
// A Tokenizer normalizes text (NFKC, Unicode case folding), splits it on
// anything that is not a letter or digit and optionally drops English stop
// words. An Index is built from a corpus for a single scoring call: it owns
// the vocabulary, document frequencies and per-document TF-IDF vectors, and
// projects query text onto the same vocabulary.
//
// Indexes are request-scoped values. Nothing is cached between calls, so IDF
// weights are relative to the batch being ranked.
package terms
