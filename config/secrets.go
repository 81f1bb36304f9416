package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	gokeyring "github.com/zalando/go-keyring"
)

// ServiceName is the keyring service name for storing secrets.
const ServiceName = "folio"

// Secret keys.
const (
	KeyFinnhub = "finnhub_api_key"
	KeyGemini  = "gemini_api_key"
)

// envNames are the environment variables overriding the keyring.
var envNames = map[string]string{
	KeyFinnhub: "FINNHUB_API_KEY",
	KeyGemini:  "GEMINI_API_KEY",
}

// EnvName returns the environment variable of a secret key.
func EnvName(key string) string { return envNames[key] }

// ErrNotFound is returned when a secret is not found.
var ErrNotFound = errors.New("secret not found")

// Store provides secure secret storage.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Keyring stores secrets in the system keyring.
type Keyring struct{}

func (Keyring) Get(key string) (string, error) {
	secret, err := gokeyring.Get(ServiceName, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (Keyring) Set(key, value string) error { return gokeyring.Set(ServiceName, key, value) }

func (Keyring) Delete(key string) error {
	err := gokeyring.Delete(ServiceName, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return nil // Deleting non-existent key is not an error
	}
	return err
}

// EnvStore checks environment variables before the underlying store.
type EnvStore struct {
	Store
}

func (e EnvStore) Get(key string) (string, error) {
	if name, ok := envNames[key]; ok {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return e.Store.Get(key)
}

// Secret returns the secret key from store, or "" if it is not set anywhere.
func Secret(store Store, key string) (string, error) {
	v, err := store.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// LoadEnv loads the given .env files into the environment. Missing files are
// ignored, variables already set are kept.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}
