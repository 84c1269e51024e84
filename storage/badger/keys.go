package badger

import (
	"github.com/poiesic/curator/storage"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "emb:"
)

// makeModelPrefix returns the key prefix shared by every embedding of one
// model. The model id is length-prefixed so ids containing separators cannot
// collide.
func makeModelPrefix(modelID string) []byte {
	encoded := storage.MarshalString(modelID)
	buf := make([]byte, 0, len(embeddingPrefix)+len(encoded))
	buf = append(buf, embeddingPrefix...)
	return append(buf, encoded...)
}

// makeEmbeddingKey generates a key for a message embedding.
// Format: prefix:len(model):model:messageID
func makeEmbeddingKey(modelID, messageID string) []byte {
	prefix := makeModelPrefix(modelID)
	buf := make([]byte, 0, len(prefix)+len(messageID))
	buf = append(buf, prefix...)
	return append(buf, messageID...)
}
