package gcs

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path"
	"strings"
	"time"
)

const keySuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateObjectKey builds the canonical storage path for an uploaded
// file: {folder}/{epoch-millis}-{random6}.{ext}. The original file name
// only contributes its extension, so Thai product names never leak into
// object paths.
func GenerateObjectKey(folder, fileName string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%d-%s.%s", strings.Trim(folder, "/"), time.Now().UnixMilli(), randomSuffix(6), ext)
}

func randomSuffix(length int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(keySuffixAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; fall back to a fixed character.
			b.WriteByte('0')
			continue
		}
		b.WriteByte(keySuffixAlphabet[n.Int64()])
	}
	return b.String()
}
