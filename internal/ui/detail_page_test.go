package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/session"
)

type fakeSigner struct {
	address string
	digest  string
	signed  [][]byte
}

func (s *fakeSigner) Address() string { return s.address }

func (s *fakeSigner) Sign(message []byte) ([]byte, string, error) {
	s.signed = append(s.signed, message)
	return []byte("sig"), s.digest, nil
}

// verifyCapture runs a verify endpoint that records the posted payload.
func verifyCapture(t *testing.T, got *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/verify/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Verification{ID: "v1", Verified: true})
	}))
}

func TestCastVoteSignsWithMatchingKeystore(t *testing.T) {
	addr := "0x" + strings.Repeat("ab", 32)

	var payload map[string]any
	srv := verifyCapture(t, &payload)
	defer srv.Close()

	sess := session.NewStore(memStorage{})
	sess.Hydrate()
	sess.SetAddress(addr)

	signer := &fakeSigner{address: addr, digest: "D1gest"}
	client := api.NewClient(srv.URL, sess)
	m := newDetailModel(client, sess, signer, NewStyles(LightTheme()))
	m.report = &models.Report{ID: "r1", Status: models.StatusPending}
	m.voteVal = true

	cmd := m.castVote()
	if cmd == nil {
		t.Fatal("no vote command")
	}
	raw := cmd()
	msg, ok := raw.(verifyDoneMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", raw)
	}
	if msg.err != nil {
		t.Fatal(msg.err)
	}

	if got := payload["transaction_hash"]; got != "D1gest" {
		t.Fatalf("transaction_hash = %v, want signer digest", got)
	}
	if len(signer.signed) != 1 {
		t.Fatalf("sign calls = %d", len(signer.signed))
	}
	if want := "verify r1 true"; string(signer.signed[0]) != want {
		t.Fatalf("signed payload = %q, want %q", signer.signed[0], want)
	}
}

func TestCastVoteUnsignedWhenKeystoreMismatches(t *testing.T) {
	var payload map[string]any
	srv := verifyCapture(t, &payload)
	defer srv.Close()

	sess := session.NewStore(memStorage{})
	sess.Hydrate()
	sess.SetAddress("0x" + strings.Repeat("ab", 32))

	// Keystore holds a different account than the connected wallet.
	signer := &fakeSigner{address: "0x" + strings.Repeat("cd", 32), digest: "D1gest"}
	client := api.NewClient(srv.URL, sess)
	m := newDetailModel(client, sess, signer, NewStyles(LightTheme()))
	m.report = &models.Report{ID: "r1", Status: models.StatusPending}
	m.voteVal = false

	if msg, ok := m.castVote()().(verifyDoneMsg); !ok || msg.err != nil {
		t.Fatalf("vote failed: %+v", msg)
	}
	if _, present := payload["transaction_hash"]; present {
		t.Fatal("mismatched keystore still produced a digest")
	}
	if len(signer.signed) != 0 {
		t.Fatal("mismatched keystore was asked to sign")
	}
}

func TestCastVoteUnsignedWithoutKeystore(t *testing.T) {
	var payload map[string]any
	srv := verifyCapture(t, &payload)
	defer srv.Close()

	sess := session.NewStore(memStorage{})
	sess.Hydrate()
	sess.SetAddress("0x" + strings.Repeat("ab", 32))

	client := api.NewClient(srv.URL, sess)
	m := newDetailModel(client, sess, nil, NewStyles(LightTheme()))
	m.report = &models.Report{ID: "r1", Status: models.StatusPending}

	if msg, ok := m.castVote()().(verifyDoneMsg); !ok || msg.err != nil {
		t.Fatalf("vote failed: %+v", msg)
	}
	if _, present := payload["transaction_hash"]; present {
		t.Fatal("nil signer still produced a digest")
	}
}
