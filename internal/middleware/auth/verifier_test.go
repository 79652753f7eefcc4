package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "codeconnect-test"

type certServer struct {
	*httptest.Server
	key  *rsa.PrivateKey
	hits atomic.Int32
}

// newCertServer serves one self-signed certificate under kid "k1" the way
// Google's x509 endpoint does.
func newCertServer(t *testing.T) *certServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.system.gserviceaccount.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	cs := &certServer{key: key}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		json.NewEncoder(w).Encode(map[string]string{"k1": string(certPEM)})
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(cs.key)
	require.NoError(t, err)
	return signed
}

func validClaims() *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-123",
			Issuer:    issuerPrefix + testProject,
			Audience:  jwt.ClaimStrings{testProject},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:    "dev@example.com",
		Name:     "Dev",
		Picture:  "https://example.com/a.png",
		Firebase: FirebaseInfo{SignInProvider: "github.com"},
	}
}

func TestFirebaseVerifier_Valid(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier(testProject, WithCertsURL(cs.URL))

	claims, err := v.Verify(context.Background(), cs.sign(t, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UserID())
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, "Dev", claims.Name)
	assert.Equal(t, ProviderGithub, claims.Provider())
}

func TestFirebaseVerifier_Rejects(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier(testProject, WithCertsURL(cs.URL))

	tests := []struct {
		name    string
		kid     string
		mutate  func(c *Claims)
		wantErr error
	}{
		{"wrong audience", "k1", func(c *Claims) { c.Audience = jwt.ClaimStrings{"other"} }, ErrInvalidToken},
		{"wrong issuer", "k1", func(c *Claims) { c.Issuer = issuerPrefix + "other" }, ErrInvalidToken},
		{"expired", "k1", func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute)) }, ErrExpiredToken},
		{"issued in the future", "k1", func(c *Claims) { c.IssuedAt = jwt.NewNumericDate(time.Now().Add(time.Hour)) }, ErrInvalidToken},
		{"missing subject", "k1", func(c *Claims) { c.Subject = "" }, ErrMissingUserID},
		{"unknown kid", "k2", func(c *Claims) {}, ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)
			_, err := v.Verify(context.Background(), cs.sign(t, tt.kid, claims))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFirebaseVerifier_RejectsHS256(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier(testProject, WithCertsURL(cs.URL))

	token, err := NewHMACVerifier("a-secret-that-is-long-enough-for-tests").Sign(validClaims())
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFirebaseVerifier_CachesKeys(t *testing.T) {
	cs := newCertServer(t)
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	v := NewFirebaseVerifier(testProject, WithCertsURL(cs.URL), WithClock(clock))
	token := cs.sign(t, "k1", validClaims())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := v.Verify(context.Background(), token)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), cs.hits.Load())

	hits := cs.hits.Load()
	_, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, hits, cs.hits.Load())

	// past max-age the keys are fetched again
	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()
	_, err = v.Verify(context.Background(), cs.sign(t, "k1", &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-123",
			Issuer:    issuerPrefix + testProject,
			Audience:  jwt.ClaimStrings{testProject},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, hits+1, cs.hits.Load())
}

func TestFirebaseVerifier_CertEndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cs := newCertServer(t)
	v := NewFirebaseVerifier(testProject, WithCertsURL(srv.URL))
	_, err := v.Verify(context.Background(), cs.sign(t, "k1", validClaims()))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier("a-secret-that-is-long-enough-for-tests")

	token, err := v.Sign(validClaims())
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UserID())

	other := NewHMACVerifier("another-secret-that-is-long-enough")
	_, err = other.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := validClaims()
	noExp.ExpiresAt = nil
	token, err = v.Sign(noExp)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 19*time.Minute, maxAge("public, max-age=1140, must-revalidate, no-transform"))
	assert.Equal(t, defaultKeyTTL, maxAge(""))
	assert.Equal(t, defaultKeyTTL, maxAge("max-age=abc"))
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}

func TestClaimsProvider(t *testing.T) {
	assert.Equal(t, ProviderGoogle, (&Claims{Firebase: FirebaseInfo{SignInProvider: "google.com"}}).Provider())
	assert.Equal(t, ProviderEmail, (&Claims{Firebase: FirebaseInfo{SignInProvider: "password"}}).Provider())
	assert.Equal(t, ProviderEmail, (&Claims{}).Provider())
}

func TestNewVerifier(t *testing.T) {
	assert.IsType(t, &FirebaseVerifier{}, NewVerifier("proj", ""))
	assert.IsType(t, &HMACVerifier{}, NewVerifier("", "secret"))
}
