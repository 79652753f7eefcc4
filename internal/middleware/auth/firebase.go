package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	// GoogleCertsURL publishes the x509 certificates that sign Firebase ID tokens
	GoogleCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
	issuerPrefix   = "https://securetoken.google.com/"

	defaultKeyTTL = time.Hour
)

// FirebaseVerifier validates Firebase ID tokens (RS256) against Google's
// published keys. Keys are cached until the endpoint's max-age runs out.
type FirebaseVerifier struct {
	projectID string
	certsURL  string
	client    *http.Client
	now       func() time.Time

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time

	refresh singleflight.Group
}

type FirebaseOption func(*FirebaseVerifier)

func WithCertsURL(url string) FirebaseOption {
	return func(v *FirebaseVerifier) { v.certsURL = url }
}

func WithHTTPClient(client *http.Client) FirebaseOption {
	return func(v *FirebaseVerifier) { v.client = client }
}

func WithClock(now func() time.Time) FirebaseOption {
	return func(v *FirebaseVerifier) { v.now = now }
}

func NewFirebaseVerifier(projectID string, opts ...FirebaseOption) *FirebaseVerifier {
	v := &FirebaseVerifier{
		projectID: projectID,
		certsURL:  GoogleCertsURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKey
		}
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if err := checkSubject(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// key returns the public key for kid, refreshing the cache when it has
// expired. Concurrent refreshes share one HTTP request.
func (v *FirebaseVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := v.now().Before(v.expires)
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}
	if fresh {
		// cache is current and does not know this kid
		return nil, ErrUnknownKey
	}

	if _, err, _ := v.refresh.Do("certs", func() (interface{}, error) {
		v.mu.RLock()
		current := v.now().Before(v.expires)
		v.mu.RUnlock()
		if current {
			// another caller refreshed while we waited
			return nil, nil
		}
		return nil, v.fetchKeys(ctx)
	}); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	return nil, ErrUnknownKey
}

func (v *FirebaseVerifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return fmt.Errorf("build certs request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch signing certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch signing certs: unexpected status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("decode signing certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemCert := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemCert))
		if err != nil {
			return fmt.Errorf("parse cert %s: %w", kid, err)
		}
		keys[kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.expires = v.now().Add(maxAge(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()
	return nil
}

// maxAge reads max-age from a Cache-Control header
func maxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		directive = strings.TrimSpace(directive)
		if value, ok := strings.CutPrefix(directive, "max-age="); ok {
			if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultKeyTTL
}
