package store_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"rmap/internal/domain"
	"rmap/internal/store"
)

const pass = "correct horse battery staple"

func record(token string) domain.TokenRecord {
	return domain.TokenRecord{
		Identity:    "Group_04",
		Token:       domain.LinkToken(token),
		Server:      "http://127.0.0.1:5000",
		AttemptID:   "attempt-" + token,
		ObtainedUTC: 1700000000,
	}
}

func TestAppendAndList(t *testing.T) {
	s := store.NewFileTokenStore(t.TempDir())

	if err := s.Append(pass, record("tok-1")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(pass, record("tok-2")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	recs, err := s.List(pass)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].Token != "tok-1" || recs[1].Token != "tok-2" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestLatestPicksNewestForIdentity(t *testing.T) {
	s := store.NewFileTokenStore(t.TempDir())

	other := record("other")
	other.Identity = "Group_09"
	for _, r := range []domain.TokenRecord{record("old"), other, record("new")} {
		if err := s.Append(pass, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	rec, ok, err := s.Latest(pass, "Group_04")
	if err != nil || !ok {
		t.Fatalf("Latest: ok=%v err=%v", ok, err)
	}
	if rec.Token != "new" {
		t.Fatalf("token %q, want new", rec.Token)
	}

	_, ok, err = s.Latest(pass, "Group_77")
	if err != nil || ok {
		t.Fatalf("unknown identity: ok=%v err=%v", ok, err)
	}
}

func TestEmptyStore(t *testing.T) {
	s := store.NewFileTokenStore(t.TempDir())
	recs, err := s.List(pass)
	if err != nil {
		t.Fatalf("List on missing file: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("want empty store, got %+v", recs)
	}
}

func TestWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFileTokenStore(dir)
	if err := s.Append(pass, record("tok")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := s.List("wrong"); err == nil {
		t.Fatal("want error for wrong passphrase")
	}
}

func TestTokensEncryptedOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFileTokenStore(dir)
	if err := s.Append(pass, record("super-secret-token")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "tokens.enc"))
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	if bytes.Contains(raw, []byte("super-secret-token")) {
		t.Fatal("token stored in plaintext")
	}
}
