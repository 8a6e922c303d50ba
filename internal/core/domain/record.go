package domain

import "fmt"

// Chunk is one bounded-length, overlapping substring of a file's
// extracted text. Index is the zero-based position within the file.
type Chunk struct {
	Index int
	Text  string
}

// Record is the storable unit combining one chunk with its file-level
// metadata. Records are persisted in the vector index under the
// owning user's namespace; the index embeds ChunkText server-side.
type Record struct {
	// ID uniquely identifies the record. Derived from the file ID and
	// chunk index, so re-ingesting a file overwrites in place.
	ID string `json:"_id"`

	// ChunkIndex is the zero-based chunk position within the file.
	ChunkIndex int `json:"chunk_id"`

	FileID     string `json:"file_id"`
	FileName   string `json:"file_name"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`

	// UserID is the storage-provider user that owns the file. It doubles
	// as the index namespace, so records never leak across users.
	UserID string `json:"box_user_id"`

	// ChunkText is the raw chunk content, stored as a field so queries
	// can return it verbatim.
	ChunkText string `json:"chunk_text"`
}

// RecordID formats the canonical record identifier for a chunk of a file.
func RecordID(fileID string, chunkIndex int) string {
	return fmt.Sprintf("%s_chunk_%d", fileID, chunkIndex)
}

// NewRecord assembles a Record from a chunk, its file descriptor and the
// owning user's namespace.
func NewRecord(chunk Chunk, file FileDescriptor, userID string) Record {
	return Record{
		ID:         RecordID(file.ID, chunk.Index),
		ChunkIndex: chunk.Index,
		FileID:     file.ID,
		FileName:   file.Name,
		CreatedAt:  file.CreatedAt.Format(timeLayout),
		ModifiedAt: file.ModifiedAt.Format(timeLayout),
		Size:       file.Size,
		UserID:     userID,
		ChunkText:  chunk.Text,
	}
}

// timeLayout matches the provider's RFC 3339 timestamp representation.
const timeLayout = "2006-01-02T15:04:05-07:00"

// QueryHit is a ranked similarity-search result. Hits arrive ordered by
// descending score and that order is preserved when building context.
type QueryHit struct {
	// ChunkText is the stored chunk content for this hit.
	ChunkText string

	// Score is the relevance score assigned by the index.
	Score float64
}
