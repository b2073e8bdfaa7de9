package gcs

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func mustGenerateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

func TestSignedURLSuccess(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	client := &Client{
		defaultBucket: "bucket",
		signer: &serviceAccountSigner{
			email: "signer@example.com",
			key:   key,
		},
	}

	object := "media/product/file.png"
	contentType := "image/png"
	expiry := time.Now().Add(5 * time.Minute)
	urlStr, err := client.SignedURL(http.MethodPut, "bucket", object, contentType, expiry)
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}

	if !strings.EqualFold(parsed.Host, "storage.googleapis.com") {
		t.Fatalf("unexpected host %s", parsed.Host)
	}

	values := parsed.Query()
	if got := values.Get("GoogleAccessId"); got != "signer@example.com" {
		t.Fatalf("unexpected GoogleAccessId %q", got)
	}

	expireParam := values.Get("Expires")
	if expireParam == "" {
		t.Fatal("Expires missing")
	}
	if _, err := strconv.ParseInt(expireParam, 10, 64); err != nil {
		t.Fatalf("parse expires: %v", err)
	}

	signature := values.Get("Signature")
	if signature == "" {
		t.Fatal("signature missing")
	}

	data := []byte("PUT\n\n" + contentType + "\n" + expireParam + "\n/" + "bucket" + "/" + object)
	hash := sha256.Sum256(data)

	rawSig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, hash[:], rawSig); err != nil {
		t.Fatalf("verify signature: %v", err)
	}
}

func TestSignedURLDefaultsBucket(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "assets",
		signer: &serviceAccountSigner{
			email: "signer@example.com",
			key:   mustGenerateKey(t),
		},
	}

	urlStr, err := client.SignedURL(http.MethodGet, "", "covers/a.jpg", "", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}
	if !strings.Contains(urlStr, "/assets/covers/a.jpg") {
		t.Fatalf("default bucket not applied: %s", urlStr)
	}
}

func TestSignedURLErrors(t *testing.T) {
	t.Parallel()

	client := &Client{
		signer: &serviceAccountSigner{
			email: "test@example.com",
			key:   mustGenerateKey(t),
		},
	}

	if _, err := client.SignedURL(http.MethodPut, "", "object", "image/png", time.Now()); err == nil {
		t.Fatal("expected error for missing bucket")
	}
	if _, err := client.SignedURL(http.MethodPut, "bucket", "", "image/png", time.Now()); err == nil {
		t.Fatal("expected error for missing object")
	}

	metadataOnly := &Client{defaultBucket: "bucket"}
	if _, err := metadataOnly.SignedURL(http.MethodPut, "bucket", "object", "image/png", time.Now()); err != ErrSigningUnavailable {
		t.Fatalf("expected ErrSigningUnavailable, got %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	client := &Client{defaultBucket: "assets"}
	if got := client.PublicURL("", "products/p.png"); got != "https://storage.googleapis.com/assets/products/p.png" {
		t.Fatalf("unexpected public url %s", got)
	}
}
