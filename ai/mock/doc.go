// Package mock provides test double implementations of the ai interfaces.
//
// # Usage in Tests
//
//	// Deterministic hash-based vectors
//	embedder := mock.NewMockEmbedder()
//
//	// Vectors that reflect topic overlap, for ranking tests
//	embedder := mock.NewTopicEmbedder("python", "ai", "cooking")
//
//	// Simulate an unreachable service
//	embedder := mock.NewFailingEmbedder(errors.New("connection refused"))
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
