package reader

import (
	"encoding/hex"
	"sync"

	"github.com/dgryski/go-tinylfu"
)

const decodeCacheSize = 256

// decodeCache memoizes GetFile's decoded output so repeated reads of the
// same path skip re-running the compress/encrypt/ECC reversal. It is a
// pure speed optimization: a cache miss falls through to the normal
// decode path and GetFile's result is identical either way.
type decodeCache struct {
	mu sync.Mutex
	c  *tinylfu.T
}

func newDecodeCache() *decodeCache {
	return &decodeCache{c: tinylfu.New(decodeCacheSize, decodeCacheSize*10)}
}

func cacheKey(path string, key *[32]byte) string {
	if key == nil {
		return path
	}
	return path + "\x00" + hex.EncodeToString(key[:])
}

func (d *decodeCache) get(path string, key *[32]byte) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.c.Get(cacheKey(path, key))
	if !ok {
		return nil, false
	}
	out, ok := v.([]byte)
	return out, ok
}

func (d *decodeCache) put(path string, key *[32]byte, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.c.Add(tinylfu.Item{Key: cacheKey(path, key), Value: data})
}
