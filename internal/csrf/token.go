package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxAge is the replay window for a minted token.
const DefaultMaxAge = time.Hour

// Service mints and verifies anti-forgery tokens. Tokens are stateless:
// base64("<sessionID>:<unixMillis>:<hexHMAC>") signed with the server
// secret, so nothing is ever stored server-side.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Generate mints a token bound to the given session id. It never fails;
// two calls in the same millisecond for the same session yield the same
// token, which is harmless since the signature is deterministic.
func (s *Service) Generate(sessionID string) string {
	data := sessionID + ":" + strconv.FormatInt(s.now().UnixMilli(), 10)
	return base64.StdEncoding.EncodeToString([]byte(data + ":" + s.sign(data)))
}

// Verify reports whether token is a well-formed, unexpired token bound
// to sessionID. It never panics on garbage input; every decode or parse
// failure is a plain rejection. Checks run in order: shape, timestamp,
// session binding, then signature in constant time.
func (s *Service) Verify(token, sessionID string, maxAge time.Duration) bool {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return false
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return false
	}

	// Unparseable timestamps fail closed rather than skipping the age check.
	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}

	if s.now().UnixMilli()-issuedAt > maxAge.Milliseconds() {
		return false
	}

	if parts[0] != sessionID {
		return false
	}

	expected := s.sign(parts[0] + ":" + parts[1])
	return hmac.Equal([]byte(expected), []byte(parts[2]))
}

func (s *Service) sign(data string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
