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


// Package warmup pre-embeds a message set into the embedding cache.
//
// Curation calls embed every message whose vector is not cached under the
// active model. Running a warm-up ahead of time moves that cost out of the
// request path: messages are split into fixed-size batches, each batch is
// embedded with retry, and the vectors are written to the cache keyed by
// message id and content hash.
//
// Basic usage:
//
//	scorer, _ := scoring.NewSemanticScorer(embedder, scoring.WithCache(cache, modelID))
//	w := warmup.NewWarmer(scorer, warmup.DefaultConfig(), os.Stderr)
//	report, err := w.Run(ctx, messages)
package warmup
