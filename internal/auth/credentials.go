package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nikhilbhutani/swasthlog/internal/models"
)

// CredentialStore validates a mobile/password pair. Login succeeds iff an
// exact match exists. The store is read-only from the pipeline's side.
type CredentialStore interface {
	Validate(ctx context.Context, mobile, password string) error
}

// FileStore reads credentials from a flat JSON file: an array of
// {"mobile": ..., "password": ...} records. Values may be JSON numbers or
// numeric strings; both compare by their digit form. The file is re-read on
// every login so edits take effect without a restart.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Validate(ctx context.Context, mobile, password string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}

	var users []struct {
		Mobile   digits `json:"mobile"`
		Password digits `json:"password"`
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse user data: %w", err)
	}

	for _, u := range users {
		if string(u.Mobile) == mobile && string(u.Password) == password {
			return nil
		}
	}
	return models.ErrAuthFailure
}

// digits accepts a JSON number or string and keeps its literal digit form.
type digits string

func (d *digits) UnmarshalJSON(b []byte) error {
	if len(b) > 1 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = digits(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = digits(n.String())
	return nil
}
