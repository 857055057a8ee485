package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"github.com/inful/mdfp"
)

// Manifest is the generated data file form of a snapshot.
type Manifest struct {
	Hash       string      `json:"hash"`
	BuiltAt    time.Time   `json:"built_at"`
	Revision   string      `json:"revision,omitempty"`
	Count      int         `json:"count"`
	Pages      []Summary   `json:"pages"`
	Collisions []Collision `json:"collisions,omitempty"`
}

// NewManifest describes s.
func NewManifest(s *Snapshot) Manifest {
	return Manifest{
		Hash:       s.Hash(),
		BuiltAt:    s.BuiltAt().UTC(),
		Revision:   s.Revision(),
		Count:      s.Len(),
		Pages:      s.Summaries(),
		Collisions: s.Collisions(),
	}
}

// WriteManifest writes the indented JSON manifest of s to w.
func WriteManifest(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewManifest(s))
}

// ComputeHash returns a deterministic hash of a page sequence. Order is significant.
func ComputeHash(pages []DocPage) string {
	if len(pages) == 0 {
		h := sha256.Sum256([]byte("empty-docs-set"))
		return hex.EncodeToString(h[:])
	}
	h := sha256.New()
	for _, p := range pages {
		_, _ = io.WriteString(h, p.Slug)
		_, _ = h.Write([]byte{0})
		_, _ = io.WriteString(h, p.Source)
		_, _ = h.Write([]byte{0})
		_, _ = io.WriteString(h, p.Fingerprint)
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// fingerprint is the mdfp content fingerprint of a file, used for ETags.
func fingerprint(doc frontmatter.Document) string {
	fm := strings.TrimSuffix(strings.ReplaceAll(string(doc.Raw), "\r\n", "\n"), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, string(doc.Body))
}
