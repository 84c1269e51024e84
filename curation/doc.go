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

// Package curation ranks a batch of messages against a user's topic
// preferences.
//
// Service.Curate validates the batch, scores every message against every
// preference with the keyword and/or semantic scorer, fuses the scores and
// splits the batch into important and regular sections. Each call is
// independent: vocabularies and score matrices are built per call, and the
// embedding cache is the only state shared between calls.
//
// # Degradation
//
// When the embedder is missing, fails, or exceeds Config.EmbedTimeout, a
// semantic or hybrid call falls back to keyword scoring and reports the
// method "keyword-only". Only configuration errors and caller cancellation
// are returned as errors.
//
// # Usage
//
//	svc, err := curation.NewService(
//	    curation.WithProvider(provider),
//	    curation.WithCache(cache),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Release()
//
//	result, err := svc.Curate(ctx, messages, []string{"machine learning"}, curation.DefaultConfig())
package curation
