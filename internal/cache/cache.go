// Package cache keeps small JSON documents on disk for a fixed time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/where"
)

// TTL is how long an entry stays valid.
const TTL = 24 * time.Hour

func dir() string {
	d := filepath.Join(where.Cache(), "manifests")
	_ = filesystem.API().MkdirAll(d, 0o755)
	return d
}

// GenerateKey derives a file name from the given parts.
func GenerateKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry into target. It reports false for missing, expired or corrupt entries.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := afero.ReadFile(filesystem.API(), path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, replacing the previous entry atomically.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	tmpPath := path + ".tmp"

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(filesystem.API(), tmpPath, encoded, 0o644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes expired entries.
func CollectGarbage() {
	_ = afero.Walk(filesystem.API(), dir(), func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL {
			_ = filesystem.API().Remove(path)
		}
		return nil
	})
}
