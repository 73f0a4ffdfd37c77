package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds "<kind>:<sha256 of parts>". The kind prefix is what
// [FileCache] shards entries by.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data. Tile IDs and snapshot keys are
// derived from the hash of a tile's source bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// PlacementHash identifies a rendered document: the placement JSON, the
// logo content hash and the linked-tile base all change the output.
func PlacementHash(placement []byte, logoHash, linkedBase string) string {
	h := sha256.New()
	h.Write(placement)
	h.Write([]byte{0})
	h.Write([]byte(logoHash))
	h.Write([]byte{0})
	h.Write([]byte(linkedBase))
	return hex.EncodeToString(h.Sum(nil))
}
