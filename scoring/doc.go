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

// Package scoring computes per-document relevance scores for a query.
//
// KeywordScorer ranks by TF-IDF cosine similarity over a vocabulary built
// from the corpus being scored. SemanticScorer ranks by cosine similarity of
// embeddings produced by an injected ai.Embedder, optionally backed by a
// storage.EmbeddingCache. Both return one score in [0,1] per document, in
// corpus order.
package scoring
