package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/crypt"
	"github.com/signadot/go-packet/format"
)

func TestParse(t *testing.T) {
	d := []byte(`
format: json
compression: zstd
maxRecv: 4096
cipher:
  mode: cbc
  hash: blake3
  key: "passphrase"
`)
	got, err := Parse(d)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Format:      format.JSONFormat,
		Compression: compress.Zstd,
		MaxRecv:     4096,
		Cipher:      Cipher{Mode: crypt.ModeCBC, Hash: crypt.BLAKE3, Key: "passphrase"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	out, err := got.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(%s): %v", out, err)
	}
	if diff := cmp.Diff(want, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	got, err := Parse([]byte("compression: none\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"format: xml\n",
		"compression: lzma\n",
		"cipher:\n  mode: ecb\n  key: k\n",
		"cipher:\n  mode: ctr\n",
		"maxRecv: -1\n",
		"unknown: 1\n",
	}
	for _, in := range tests {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q): expected ErrInvalid, got %v", in, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packet.yaml")
	if err := os.WriteFile(path, []byte("format: literal\ncipher:\n  mode: ctr-iv\n  keyEnv: TEST_PACKET_KEY\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.NewCipher(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unset key variable, got %v", err)
	}
	t.Setenv("TEST_PACKET_KEY", "s3cret")
	ci, err := c.NewCipher()
	if err != nil {
		t.Fatal(err)
	}
	if ci.Mode() != crypt.ModeCTRIV {
		t.Errorf("mode %s", ci.Mode())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PACKET_FORMAT", "json")
	t.Setenv("PACKET_COMPRESSION", "zstd")
	t.Setenv("PACKET_CIPHER_MODE", "cbc")
	t.Setenv("PACKET_CIPHER_HASH", "sha3-256")
	t.Setenv("PACKET_KEY", "k")
	c := Default()
	if err := c.FromEnv(); err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Format:      format.JSONFormat,
		Compression: compress.Zstd,
		MaxRecv:     DefaultMaxRecv,
		Cipher:      Cipher{Mode: crypt.ModeCBC, Hash: crypt.SHA3_256, Key: "k"},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
	t.Setenv("PACKET_CIPHER_MODE", "rot13")
	if err := c.FromEnv(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestRecvSize(t *testing.T) {
	c := &Config{}
	if c.RecvSize() != DefaultMaxRecv {
		t.Errorf("RecvSize() = %d", c.RecvSize())
	}
	c.MaxRecv = 10
	if c.RecvSize() != 10 {
		t.Errorf("RecvSize() = %d", c.RecvSize())
	}
}
