// internal/app/system/localstate/filestore.go
package localstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// FileStore is a Store backed by a single JSON file. Each value is
// MAC-signed with the store's hash key before it hits disk, so a tampered or
// corrupted file degrades to "key absent" instead of feeding bad data back
// into the session. Writes are atomic (temp file + rename) and the file is
// created with 0600 permissions since it holds credentials.
type FileStore struct {
	path  string
	codec *securecookie.SecureCookie
	log   *zap.Logger

	mu     sync.Mutex
	values map[string]string // decoded values, kept in sync with disk
}

// NewFileStore opens (or creates) the store at path. hashKey signs the
// persisted values; it must be the same across runs or every stored value
// reads back as absent.
func NewFileStore(path string, hashKey []byte, log *zap.Logger) (*FileStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(0) // persisted state has no expiry of its own

	fs := &FileStore{
		path:   path,
		codec:  codec,
		log:    log,
		values: make(map[string]string),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// load reads the on-disk map and decodes every value it can verify.
// Values that fail verification are dropped (fail soft).
func (f *FileStore) load() error {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	var encoded map[string]string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		f.log.Warn("local state file is corrupt, starting empty",
			zap.String("path", f.path),
			zap.Error(err),
		)
		return nil
	}

	for k, enc := range encoded {
		var v string
		if err := f.codec.Decode(k, enc, &v); err != nil {
			f.log.Debug("dropping unverifiable local state value",
				zap.String("key", k),
				zap.Error(err),
			)
			continue
		}
		f.values[k] = v
	}
	return nil
}

// flush writes the current map to disk atomically. Caller holds f.mu.
func (f *FileStore) flush() error {
	encoded := make(map[string]string, len(f.values))
	for k, v := range f.values {
		enc, err := f.codec.Encode(k, v)
		if err != nil {
			return fmt.Errorf("encode local state value %q: %w", k, err)
		}
		encoded[k] = enc
	}

	raw, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal local state: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create local state dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write local state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace local state: %w", err)
	}
	return nil
}

// Get implements Store.
func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// Set implements Store.
func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flush()
}

// Delete implements Store.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}

// Keys implements Store.
func (f *FileStore) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	return keys
}
