package cipher

import "testing"

func TestRoundTrip(t *testing.T) {
	c := New([]byte(DefaultKey))
	plain := []byte("the quick brown fox jumps over the lazy dog")

	ct := c.Encrypt(plain)
	if string(ct) == string(plain) && len(plain) > 0 {
		t.Fatal("ciphertext should differ from plaintext for a non-empty key")
	}
	pt := c.Decrypt(ct)
	if string(pt) != string(plain) {
		t.Fatalf("Decrypt(Encrypt(p)) = %q, want %q", pt, plain)
	}
}

func TestLengthPreserving(t *testing.T) {
	c := New([]byte(DefaultKey))
	for _, n := range []int{0, 1, 7, 8, 9, 1000} {
		data := make([]byte, n)
		out := c.Encrypt(data)
		if len(out) != n {
			t.Fatalf("Encrypt changed length: got %d, want %d", len(out), n)
		}
	}
}

func TestGenerateKeySize(t *testing.T) {
	k := GenerateKey()
	if len(k) != KeySize {
		t.Fatalf("len(GenerateKey()) = %d, want %d", len(k), KeySize)
	}
}

func TestEmptyKeyIsNoop(t *testing.T) {
	c := New(nil)
	data := []byte("unchanged")
	if string(c.Encrypt(data)) != string(data) {
		t.Fatal("empty-key cipher must be a no-op")
	}
}
