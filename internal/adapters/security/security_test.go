package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

func TestJWTSignAndParse(t *testing.T) {
	t.Parallel()

	signer, err := NewEphemeralJWTSigner("test-key", "storefront")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	token, err := signer.Sign(ports.AuthClaims{
		UserID:    42,
		Email:     "mario@example.com",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	claims, err := signer.ParseAndValidate(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "mario@example.com", claims.Email)
	assert.Equal(t, "test-key", claims.KeyID)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestJWTExpiredAndTampered(t *testing.T) {
	t.Parallel()

	signer, err := NewEphemeralJWTSigner("test-key", "storefront")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-3 * time.Hour)
	expired, err := signer.Sign(ports.AuthClaims{UserID: 1, IssuedAt: past, ExpiresAt: past.Add(time.Hour)})
	require.NoError(t, err)
	_, err = signer.ParseAndValidate(expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	other, err := NewEphemeralJWTSigner("other-key", "storefront")
	require.NoError(t, err)
	foreign, err := other.Sign(ports.AuthClaims{UserID: 1, IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = signer.ParseAndValidate(foreign)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = signer.ParseAndValidate("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "storefront",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := hs.SignedString([]byte("shared-secret"))
	require.NoError(t, err)
	_, err = signer.ParseAndValidate(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTSignerFromPEM(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	signer, err := NewJWTSigner("pem-key", "", string(privPEM), string(pubPEM))
	require.NoError(t, err)
	token, err := signer.Sign(ports.AuthClaims{UserID: 9, IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	claims, err := signer.ParseAndValidate(token)
	require.NoError(t, err)
	assert.EqualValues(t, 9, claims.UserID)

	_, err = NewJWTSigner("pem-key", "", "garbage", string(pubPEM))
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("maglia2024")
	require.NoError(t, err)
	assert.NotEqual(t, "maglia2024", hash)
	assert.NoError(t, h.Compare(hash, "maglia2024"))
	assert.Error(t, h.Compare(hash, "maglia2025"))
}
