package source

import (
	"github.com/caarlos0/env/v11"
)

// Credentials authenticate Kaggle API downloads.
type Credentials struct {
	Username string `env:"KAGGLE_USERNAME"`
	Key      string `env:"KAGGLE_KEY"`
}

// IsZero reports whether either part is missing.
func (c Credentials) IsZero() bool {
	return c.Username == "" || c.Key == ""
}

// CredentialsFromEnv reads KAGGLE_USERNAME and KAGGLE_KEY.
func CredentialsFromEnv() (Credentials, error) {
	return env.ParseAs[Credentials]()
}

// Merge returns c with empty fields filled from other.
func (c Credentials) Merge(other Credentials) Credentials {
	if c.Username == "" {
		c.Username = other.Username
	}
	if c.Key == "" {
		c.Key = other.Key
	}
	return c
}
