package segcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Key identifies one synthesis request.
type Key struct {
	Speaker string
	VoiceID string
	ModelID string
	Text    string
}

// Fingerprint returns the cache key for k.
func (k Key) Fingerprint() string {
	return Fingerprint(k.Speaker, k.VoiceID, k.ModelID, k.Text)
}

// Fingerprint hashes the four fields with SHA-256. Each field is prefixed by
// its byte length so no choice of field contents can collide across field
// boundaries.
func Fingerprint(speaker, voiceID, modelID, text string) string {
	h := sha256.New()
	var size [8]byte
	for _, field := range [...]string{speaker, voiceID, modelID, text} {
		binary.BigEndian.PutUint64(size[:], uint64(len(field)))
		h.Write(size[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func validFingerprint(fp string) bool {
	if len(fp) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(fp)
	return err == nil
}
