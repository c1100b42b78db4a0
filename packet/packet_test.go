package packet

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"math/cmplx"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-packet/compress"
	"github.com/signadot/go-packet/config"
	"github.com/signadot/go-packet/crypt"
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
)

type abc struct {
	A int `packet:"a"`
	B int `packet:"b"`
	C int `packet:"c"`
}

func mustNew(t *testing.T, root any, opts ...Option) *Packet {
	t.Helper()
	p, err := New(root, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustDumps(t *testing.T, p *Packet) []byte {
	t.Helper()
	d, err := p.Dumps()
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestJSONScenario(t *testing.T) {
	p := mustNew(t, &abc{1, 2, 3}, WithTag("Tag"), WithFormat(format.JSONFormat))
	d := mustDumps(t, p)
	if want := `{"Tag": {"a": 1, "b": 2, "c": 3}}`; string(d) != want {
		t.Errorf("got %s want %s", d, want)
	}
	dst := &abc{}
	q := mustNew(t, dst, WithTag("Tag"), WithFormat(format.JSONFormat))
	if err := q.Loads(d); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&abc{1, 2, 3}, dst); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

type inner struct {
	InnerA int `packet:"inner_a"`
}

type outer struct {
	Inner inner
	Name  string
}

func TestNestedScenario(t *testing.T) {
	src := &outer{Inner: inner{1}, Name: "o"}
	p := mustNew(t, src)
	p.Do(func() { src.Inner.InnerA = 123 })
	d := mustDumps(t, p)
	if want := `{'outer': {'Inner': {'inner_a': 123}, 'Name': 'o'}}`; string(d) != want {
		t.Errorf("got %s want %s", d, want)
	}
	dst := &outer{}
	if err := mustNew(t, dst).Loads(d); err != nil {
		t.Fatal(err)
	}
	if dst.Inner.InnerA != 123 || dst.Name != "o" {
		t.Errorf("got %+v", dst)
	}
}

type stamp struct {
	When time.Time
}

func TestReducibleScenario(t *testing.T) {
	when := time.Date(2023, 7, 14, 9, 0, 0, 123, time.UTC)
	for _, f := range format.AllFormats() {
		d := mustDumps(t, mustNew(t, &stamp{When: when}, WithFormat(f)))
		dst := &stamp{}
		if err := mustNew(t, dst, WithFormat(f)).Loads(d); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !dst.When.Equal(when) {
			t.Errorf("%s: got %v want %v", f, dst.When, when)
		}
	}
}

type prims struct {
	F   float64
	N   float64
	C   complex128
	S   map[string]struct{}
	B   []byte
	T   ir.Tuple
	Big *big.Int
	Opt *string
	Any any
}

func TestLiteralPrimitives(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	src := &prims{
		F:   math.Inf(-1),
		N:   math.NaN(),
		C:   complex(math.Inf(1), math.Inf(1)),
		S:   map[string]struct{}{"a": {}, "b": {}},
		B:   []byte{0, 0xff},
		T:   ir.Tuple{1, "x", ir.Tuple{}},
		Big: huge,
	}
	d := mustDumps(t, mustNew(t, src))
	dst := &prims{Big: new(big.Int)}
	if err := mustNew(t, dst).Loads(d); err != nil {
		t.Fatalf("Loads(%s): %v", d, err)
	}
	if !math.IsInf(dst.F, -1) || !math.IsNaN(dst.N) || !cmplx.IsInf(dst.C) {
		t.Errorf("specials: %v %v %v", dst.F, dst.N, dst.C)
	}
	if diff := cmp.Diff(src.S, dst.S); diff != "" {
		t.Errorf("set mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(dst.B, src.B) || dst.Big.Cmp(huge) != 0 || dst.Opt != nil || dst.Any != nil {
		t.Errorf("got %+v", dst)
	}
	if diff := cmp.Diff(src.T, dst.T); diff != "" {
		t.Errorf("tuple mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONTuples(t *testing.T) {
	type pairs struct {
		P [2]int
		T ir.Tuple
	}
	d := mustDumps(t, mustNew(t, &pairs{P: [2]int{1, 2}, T: ir.Tuple{3, "x"}}, WithFormat(format.JSONFormat)))
	if want := `{"pairs": {"P": [1, 2], "T": [3, "x"]}}`; string(d) != want {
		t.Errorf("got %s want %s", d, want)
	}
	dst := &pairs{}
	if err := mustNew(t, dst, WithFormat(format.JSONFormat)).Loads(d); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&pairs{P: [2]int{1, 2}, T: ir.Tuple{3, "x"}}, dst); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpsNotSerializable(t *testing.T) {
	type withComplex struct{ C complex128 }
	_, err := mustNew(t, &withComplex{}, WithFormat(format.JSONFormat)).Dumps()
	if !errors.Is(err, ErrNotSerializable) {
		t.Errorf("expected ErrNotSerializable, got %v", err)
	}
}

func TestSetGet(t *testing.T) {
	root := &abc{1, 2, 3}
	p := mustNew(t, root)
	if err := p.Set("d", 1); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("expected ErrUnknownAttribute, got %v", err)
	}
	if _, err := p.Get("A"); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("expected ErrUnknownAttribute, got %v", err)
	}
	for _, v := range []any{"x", nil, int64(1)} {
		if err := p.Set("a", v); err == nil {
			t.Errorf("Set(a, %#v): expected error", v)
		}
	}
	if diff := cmp.Diff(&abc{1, 2, 3}, root); diff != "" {
		t.Errorf("failed Set changed the root (-want +got):\n%s", diff)
	}
	if err := p.Set("a", 9); err != nil {
		t.Fatal(err)
	}
	got, err := p.Get("a")
	if err != nil || got != 9 {
		t.Errorf("Get(a) = %v, %v", got, err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, p.Attributes()); diff != "" {
		t.Errorf("attributes (-want +got):\n%s", diff)
	}
}

type holder struct {
	L []int
	M map[string]int
}

func TestGetCopies(t *testing.T) {
	root := &holder{L: []int{1, 2}, M: map[string]int{"a": 1}}
	p := mustNew(t, root)
	l, err := p.Get("L")
	if err != nil {
		t.Fatal(err)
	}
	l.([]int)[0] = 9
	m, err := p.Get("M")
	if err != nil {
		t.Fatal(err)
	}
	m.(map[string]int)["b"] = 2
	want := &holder{L: []int{1, 2}, M: map[string]int{"a": 1}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("changing Get results changed the root (-want +got):\n%s", diff)
	}

	q, err := NewBuilder("Dyn").Set("l", []string{"x"}).Set("n", nil).Build()
	if err != nil {
		t.Fatal(err)
	}
	dl, err := q.Get("l")
	if err != nil {
		t.Fatal(err)
	}
	dl.([]string)[0] = "y"
	if again, _ := q.Get("l"); again.([]string)[0] != "x" {
		t.Errorf("changing a Get result changed the builder packet: %v", again)
	}
	if n, err := q.Get("n"); err != nil || n != nil {
		t.Errorf("Get(n) = %v, %v", n, err)
	}
}

func TestLoadsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing", `{'abc': {'a': 1, 'b': 2}}`, ErrInvalidData},
		{"extra", `{'abc': {'a': 1, 'b': 2, 'c': 3, 'd': 4}}`, ErrInvalidData},
		{"type", `{'abc': {'a': 'x', 'b': 2, 'c': 3}}`, ErrInvalidData},
		{"tag", `{'xyz': {'a': 1, 'b': 2, 'c': 3}}`, ErrInvalidData},
		{"tag type", `{1: {'a': 1, 'b': 2, 'c': 3}}`, ErrInvalidData},
		{"two keys", `{'abc': {'a': 1, 'b': 2, 'c': 3}, 'x': 1}`, ErrInvalidData},
		{"not a dict", `[1]`, ErrUnknownPacket},
		{"malformed", `__import__('os')`, ErrMalformed},
		{"bad utf8", "{'abc': '\xff'}", ErrUnknownPacket},
		{"empty", ``, ErrUnknownPacket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &abc{7, 8, 9}
			err := mustNew(t, root).Loads([]byte(tt.in))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if errors.Is(err, ErrMalformed) && !errors.Is(err, ErrUnknownPacket) {
				t.Errorf("malformed input should be an unknown packet: %v", err)
			}
			if diff := cmp.Diff(&abc{7, 8, 9}, root); diff != "" {
				t.Errorf("failed Loads changed the root (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCiphers(t *testing.T) {
	mk := func(m crypt.Mode, key string) crypt.Cipher {
		c, err := crypt.New(m, key)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	for _, m := range []crypt.Mode{crypt.ModeCTR, crypt.ModeCBC, crypt.ModeCTRIV} {
		t.Run(m.String(), func(t *testing.T) {
			p := mustNew(t, &abc{1, 2, 3}, WithCipher(mk(m, "key")))
			a, b := mustDumps(t, p), mustDumps(t, p)
			if deterministic := bytes.Equal(a, b); deterministic != (m == crypt.ModeCTR) {
				t.Errorf("equal ciphertexts: %v", deterministic)
			}
			dst := &abc{}
			if err := mustNew(t, dst, WithCipher(mk(m, "key"))).Loads(a); err != nil {
				t.Fatal(err)
			}
			if *dst != (abc{1, 2, 3}) {
				t.Errorf("got %+v", dst)
			}
			wrong := &abc{}
			err := mustNew(t, wrong, WithCipher(mk(m, "other"))).Loads(a)
			if !errors.Is(err, ErrUnknownPacket) {
				t.Errorf("expected ErrUnknownPacket with the wrong key, got %v", err)
			}
			if *wrong != (abc{}) {
				t.Errorf("wrong key changed the root: %+v", wrong)
			}
		})
	}
	err := mustNew(t, &abc{}, WithCipher(mk(crypt.ModeCBC, "key"))).Loads([]byte("short"))
	if !errors.Is(err, ErrUnknownEncryption) || !errors.Is(err, crypt.ErrDecrypt) {
		t.Errorf("expected ErrUnknownEncryption, got %v", err)
	}
}

func TestCompression(t *testing.T) {
	p := mustNew(t, &abc{1, 2, 3}, WithCompression(compress.Zstd))
	d := mustDumps(t, p)
	if bytes.HasPrefix(d, []byte("{")) {
		t.Errorf("expected compressed output, got %s", d)
	}
	dst := &abc{}
	q := mustNew(t, dst, WithCompression(compress.Zstd))
	if err := q.Loads(d); err != nil {
		t.Fatal(err)
	}
	if *dst != (abc{1, 2, 3}) {
		t.Errorf("got %+v", dst)
	}
	if err := q.Loads([]byte("{'abc': {}}")); !errors.Is(err, ErrUnknownPacket) {
		t.Errorf("expected ErrUnknownPacket, got %v", err)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := &config.Config{
		Format:      format.JSONFormat,
		Compression: compress.Zstd,
		Cipher:      config.Cipher{Mode: crypt.ModeCTRIV, Hash: crypt.BLAKE3, Key: "k"},
	}
	d := mustDumps(t, mustNew(t, &abc{4, 5, 6}, WithConfig(cfg)))
	dst := &abc{}
	if err := mustNew(t, dst, WithConfig(cfg)).Loads(d); err != nil {
		t.Fatal(err)
	}
	if *dst != (abc{4, 5, 6}) {
		t.Errorf("got %+v", dst)
	}
	bad := &config.Config{Cipher: config.Cipher{Mode: crypt.ModeCBC}}
	if _, err := New(&abc{}, WithConfig(bad)); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

type tagged struct{ X int }

func (*tagged) PacketTag() string { return "custom" }

func TestTags(t *testing.T) {
	if got := mustNew(t, &abc{}).Tag(); got != "abc" {
		t.Errorf("tag %q", got)
	}
	if got := mustNew(t, &tagged{}).Tag(); got != "custom" {
		t.Errorf("tag %q", got)
	}
	if got := mustNew(t, &tagged{}, WithTag("explicit")).Tag(); got != "explicit" {
		t.Errorf("tag %q", got)
	}
	if _, err := New(&struct{ X int }{}); err == nil {
		t.Errorf("expected error for a root with no tag")
	}
	for _, root := range []any{abc{}, (*abc)(nil), nil, map[string]any{}} {
		if _, err := New(root); err == nil {
			t.Errorf("New(%T): expected error", root)
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	root := &abc{}
	p := mustNew(t, root)
	d := mustDumps(t, mustNew(t, &abc{1, 1, 1}))
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				switch i % 3 {
				case 0:
					if _, err := p.Dumps(); err != nil {
						t.Error(err)
					}
				case 1:
					if err := p.Set("b", i); err != nil {
						t.Error(err)
					}
				default:
					if err := p.Loads(d); err != nil {
						t.Error(err)
					}
				}
			}
		}()
	}
	wg.Wait()
	p.Do(func() {
		if root.A != 1 || root.C != 1 {
			t.Errorf("got %+v", root)
		}
	})
}
