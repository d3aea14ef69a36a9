package book

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// Digest computes the BLAKE3 content digest of a document. The revision and
// the update timestamp are excluded so that an unchanged document keeps its digest.
func Digest(d *Document) (string, error) {
	c := *d
	c.Revision = ""
	c.UpdatedAt = time.Time{}

	data, err := json.Marshal(&c)
	if err != nil {
		return "", fmt.Errorf("encode document for digest: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
