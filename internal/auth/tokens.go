package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tokenFile is the on-disk format of the static token file:
//
//	tokens:
//	  - token: "s3cr3t"
//	    user_id: "alice"
type tokenFile struct {
	Tokens []struct {
		Token  string `yaml:"token"`
		UserID string `yaml:"user_id"`
	} `yaml:"tokens"`
}

// StaticTokens maps long-lived API tokens to user ids.
type StaticTokens struct {
	tokens map[string]string
}

// LoadStaticTokens reads a YAML token file.
func LoadStaticTokens(path string) (*StaticTokens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}
	return ParseStaticTokens(data)
}

// ParseStaticTokens decodes YAML token definitions.
func ParseStaticTokens(data []byte) (*StaticTokens, error) {
	var f tokenFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tokens file: %w", err)
	}

	st := &StaticTokens{tokens: make(map[string]string, len(f.Tokens))}
	for i, t := range f.Tokens {
		if t.Token == "" || t.UserID == "" {
			return nil, fmt.Errorf("tokens[%d]: token and user_id are required", i)
		}
		if _, dup := st.tokens[t.Token]; dup {
			return nil, fmt.Errorf("tokens[%d]: duplicate token", i)
		}
		st.tokens[t.Token] = t.UserID
	}
	return st, nil
}

// Len returns the number of configured tokens.
func (s *StaticTokens) Len() int { return len(s.tokens) }

// Verify implements Verifier.
func (s *StaticTokens) Verify(_ context.Context, token string) (Identity, error) {
	for known, userID := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return Identity{UserID: userID}, nil
		}
	}
	return Identity{}, ErrUnknownToken
}
