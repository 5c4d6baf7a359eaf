package assemble

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// File is one artifact in the output bundle, addressed by the sha256 digest
// of its bytes.
type File struct {
	Path string
	Hash string
	Body []byte
}

// FileManifest is the unit handed to the deployment layer: every output path
// with its content digest. Identical bytes always hash identically, which is
// what makes upload dedup work.
type FileManifest struct {
	files map[string]File
}

// NewFileManifest returns an empty manifest.
func NewFileManifest() *FileManifest {
	return &FileManifest{files: make(map[string]File)}
}

// ContentHash computes the hex sha256 digest of a byte slice.
func ContentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Add stores or replaces a file at path.
func (m *FileManifest) Add(path string, body []byte) {
	m.files[path] = File{
		Path: path,
		Hash: ContentHash(body),
		Body: append([]byte(nil), body...),
	}
}

// Get returns the file stored at path.
func (m *FileManifest) Get(path string) (File, bool) {
	file, ok := m.files[path]
	return file, ok
}

// Len reports the number of files in the manifest.
func (m *FileManifest) Len() int {
	return len(m.files)
}

// Files returns all files ordered by path so iteration is deterministic.
func (m *FileManifest) Files() []File {
	out := make([]File, 0, len(m.files))
	for _, file := range m.files {
		out = append(out, file)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Digests maps each path to its content hash, the shape submitted to the
// host to learn which digests it is missing.
func (m *FileManifest) Digests() map[string]string {
	out := make(map[string]string, len(m.files))
	for path, file := range m.files {
		out[path] = file.Hash
	}
	return out
}

// ByDigest indexes file bodies by digest for upload-by-hash requests.
// Duplicate content collapses to a single entry.
func (m *FileManifest) ByDigest() map[string][]byte {
	out := make(map[string][]byte, len(m.files))
	for _, file := range m.files {
		out[file.Hash] = file.Body
	}
	return out
}
