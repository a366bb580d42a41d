package models

import (
	"time"
)

// TokenSet is the token payload returned by Google's token endpoint.
// The proxy relays the raw JSON; this type is only used to read fields out of it.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	// ExpiryDate is set by browser clients that keep the token set around.
	ExpiryDate int64 `json:"expiry_date,omitempty"`
}

// Expiry returns the absolute expiry of the access token relative to issued,
// or the zero time when the token set carries none.
func (t *TokenSet) Expiry(issued time.Time) time.Time {
	switch {
	case t.ExpiryDate > 0:
		return time.UnixMilli(t.ExpiryDate)
	case t.ExpiresIn > 0:
		return issued.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// UploadRequest is a file submitted for upload together with the bearer token.
type UploadRequest struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
	AccessToken string
}

// FileRecord identifies an uploaded Drive file.
type FileRecord struct {
	FileID      string `json:"fileId"`
	WebViewLink string `json:"webViewLink"`
}

// StoredToken is a token set persisted under a key.
type StoredToken struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
