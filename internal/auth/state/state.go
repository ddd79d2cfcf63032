// Package state implements the stateless CSRF state token used during
// OAuth redirects. Tokens are signed and timestamped, so no server-side
// session storage is needed to validate the callback.
package state

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// TTL bounds the lifetime of an issued state token.
const TTL = 600 * time.Second

// Codec issues and verifies signed state tokens. It holds no mutable state
// and is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a codec signing with the given server secret.
func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    TTL,
		now:    time.Now,
	}
}

// Issue returns a fresh state token: base64url("timestamp.nonce.signature")
// where the signature is an HMAC-SHA256 over "timestamp.nonce". Nothing is
// stored; a token within its TTL can be replayed, which is an accepted
// trade-off of the stateless design.
func (c *Codec) Issue() string {
	nonce := make([]byte, 16)
	rand.Read(nonce)

	payload := strconv.FormatInt(c.now().Unix(), 10) + "." + hex.EncodeToString(nonce)
	token := payload + "." + c.sign(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(token))
}

// Verify checks a state token and fails closed: any decode error, malformed
// field count, expired timestamp, or signature mismatch returns false.
func (c *Codec) Verify(encoded string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	parts := strings.Split(string(raw), ".")
	if len(parts) != 3 {
		return false
	}

	issuedAt, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if c.now().Sub(time.Unix(issuedAt, 0)) > c.ttl {
		return false
	}

	expected := c.sign(parts[0] + "." + parts[1])
	return hmac.Equal([]byte(expected), []byte(parts[2]))
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
