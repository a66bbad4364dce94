// Package secrets keeps provider API keys in a per-user file (0600) with
// AES-GCM obfuscation so they stay out of the plain-text config.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDir   = "finadvisor"
	fileName = "keys.json"
)

// ErrNotFound is returned when no key is stored for a provider.
var ErrNotFound = errors.New("secrets: key not found")

type keyFile struct {
	Keys map[string]string `json:"keys"` // provider -> base64(nonce+ciphertext)
}

// SetKey stores key for provider, replacing any previous value.
func SetKey(provider, key string) error {
	provider = normalize(provider)
	if provider == "" {
		return errors.New("secrets: provider required")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("secrets: key required")
	}
	path, err := keyPath()
	if err != nil {
		return err
	}
	kf, err := readFile(path)
	if err != nil {
		return err
	}
	sealed, err := seal([]byte(key))
	if err != nil {
		return fmt.Errorf("secrets: encrypt: %w", err)
	}
	kf.Keys[provider] = base64.StdEncoding.EncodeToString(sealed)
	return writeFile(path, kf)
}

// GetKey returns the stored key for provider or ErrNotFound.
func GetKey(provider string) (string, error) {
	provider = normalize(provider)
	path, err := keyPath()
	if err != nil {
		return "", err
	}
	kf, err := readFile(path)
	if err != nil {
		return "", err
	}
	enc, ok := kf.Keys[provider]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("secrets: decode %s: %w", provider, err)
	}
	plain, err := open(raw)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt %s: %w", provider, err)
	}
	return string(plain), nil
}

// DeleteKey removes the stored key for provider. Missing keys are not an error.
func DeleteKey(provider string) error {
	provider = normalize(provider)
	path, err := keyPath()
	if err != nil {
		return err
	}
	kf, err := readFile(path)
	if err != nil {
		return err
	}
	if _, ok := kf.Keys[provider]; !ok {
		return nil
	}
	delete(kf.Keys, provider)
	return writeFile(path, kf)
}

func keyPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("secrets: config dir: %w", err)
	}
	dir = filepath.Join(dir, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("secrets: mkdir: %w", err)
	}
	return filepath.Join(dir, fileName), nil
}

func readFile(path string) (keyFile, error) {
	kf := keyFile{Keys: map[string]string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return kf, nil
	}
	if err != nil {
		return kf, fmt.Errorf("secrets: read: %w", err)
	}
	if err := json.Unmarshal(data, &kf); err != nil {
		return kf, fmt.Errorf("secrets: parse %s: %w", path, err)
	}
	if kf.Keys == nil {
		kf.Keys = map[string]string{}
	}
	return kf, nil
}

func writeFile(path string, kf keyFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("secrets: write: %w", err)
	}
	return os.Rename(tmp, path)
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func aead() (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s", appDir, runtime.GOOS, os.Getenv("USER"))))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(plain []byte) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(sealed []byte) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
