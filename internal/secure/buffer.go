package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds a retrieved secret in an encrypted memguard enclave so the
// plaintext is not parked in garbage-collected heap between retrieval and
// output. The enclave encrypts at rest and mlocks where the OS allows it.
type Buffer struct {
	enclave *memguard.Enclave

	mu        sync.Mutex
	destroyed bool
}

// NewBuffer seals data into a protected buffer. memguard wipes the input
// slice as part of sealing, so the caller must not reuse it.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// NewBufferFromString seals a string secret. The original string cannot be
// wiped (strings are immutable); callers should prefer NewBuffer when they
// hold bytes.
func NewBufferFromString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// With decrypts the secret, passes it to fn, and wipes the plaintext again
// before returning. The slice is only valid inside fn.
func (b *Buffer) With(fn func(secret []byte) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return fn(nil)
	}

	locked, err := b.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	return fn(locked.Bytes())
}

// Destroy drops the enclave. Idempotent; With returns an empty secret
// afterwards. For whole-process cleanup call memguard.Purge at exit.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.enclave = nil
	b.destroyed = true
}
