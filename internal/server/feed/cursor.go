package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/microblog/internal/server/storage"
)

// ErrInvalidCursor is returned for a cursor that fails to parse or verify
var ErrInvalidCursor = errors.New("invalid cursor")

// cursorClaims is the signed payload of a page cursor
type cursorClaims struct {
	jwt.RegisteredClaims
	CreatedAt int64 `json:"t"`
	ID        int64 `json:"id"`
}

// CursorCodec signs keyset positions so clients cannot forge them
type CursorCodec struct {
	secret []byte
}

// NewCursorCodec creates a codec using an HMAC secret
func NewCursorCodec(secret []byte) *CursorCodec {
	return &CursorCodec{secret: secret}
}

// Encode returns an opaque token for c
func (c *CursorCodec) Encode(cur storage.Cursor) (string, error) {
	claims := cursorClaims{
		CreatedAt: cur.CreatedAt.UnixNano(),
		ID:        cur.ID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign cursor: %w", err)
	}
	return s, nil
}

// Decode verifies and parses a token produced by Encode
func (c *CursorCodec) Decode(s string) (*storage.Cursor, error) {
	claims := &cursorClaims{}
	_, err := jwt.ParseWithClaims(s, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if claims.ID <= 0 {
		return nil, ErrInvalidCursor
	}

	return &storage.Cursor{
		CreatedAt: time.Unix(0, claims.CreatedAt).UTC(),
		ID:        claims.ID,
	}, nil
}
