package packet

import (
	"errors"
	"net"
	"testing"
)

type fakeChannel struct {
	sent [][]byte
	recv [][]byte
	max  []int
	err  error
}

func (c *fakeChannel) Send(d []byte) (int, error) {
	c.sent = append(c.sent, d)
	return len(d), nil
}

func (c *fakeChannel) Recv(n int) ([]byte, error) {
	c.max = append(c.max, n)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.recv) == 0 {
		return nil, nil
	}
	d := c.recv[0]
	c.recv = c.recv[1:]
	if len(d) > n {
		d = d[:n]
	}
	return d, nil
}

func TestSendReceive(t *testing.T) {
	ch := &fakeChannel{}
	n, err := mustNew(t, &abc{1, 2, 3}).SendTo(ch)
	if err != nil {
		t.Fatal(err)
	}
	if len(ch.sent) != 1 || n != len(ch.sent[0]) {
		t.Fatalf("sent %d bytes: %q", n, ch.sent)
	}
	ch.recv = [][]byte{[]byte("garbage ("), ch.sent[0], []byte(`{'other': {}}`)}
	dst := &abc{}
	p := mustNew(t, dst)
	for i, want := range []bool{false, true, false, false} {
		ok, err := p.ReceiveFrom(ch, 0)
		if err != nil {
			t.Fatal(err)
		}
		if ok != want {
			t.Errorf("receive %d: got %v want %v", i, ok, want)
		}
	}
	if *dst != (abc{1, 2, 3}) {
		t.Errorf("got %+v", dst)
	}
	for _, m := range ch.max {
		if m != DefaultBufferSize {
			t.Errorf("recv size %d, want %d", m, DefaultBufferSize)
		}
	}
	if _, err := p.ReceiveFrom(ch, 7); err != nil || ch.max[len(ch.max)-1] != 7 {
		t.Errorf("explicit recv size not used: %v", ch.max)
	}
}

func TestChannelErrors(t *testing.T) {
	p := mustNew(t, &abc{})
	if _, err := p.SendTo(nil); !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
	if _, err := p.ReceiveFrom(nil, 0); !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
	boom := errors.New("boom")
	if ok, err := p.ReceiveFrom(&fakeChannel{err: boom}, 0); ok || !errors.Is(err, boom) {
		t.Errorf("expected transport error, got %v, %v", ok, err)
	}
}

func TestConnChannel(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	src := mustNew(t, &abc{4, 5, 6})
	errc := make(chan error, 1)
	go func() {
		_, err := src.SendTo(ConnChannel(a))
		a.Close()
		errc <- err
	}()
	dst := &abc{}
	p := mustNew(t, dst)
	ok, err := p.ReceiveFrom(ConnChannel(b), 0)
	if err != nil || !ok {
		t.Fatalf("ReceiveFrom: %v, %v", ok, err)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if *dst != (abc{4, 5, 6}) {
		t.Errorf("got %+v", dst)
	}
	ok, err = p.ReceiveFrom(ConnChannel(b), 0)
	if ok || err != nil {
		t.Errorf("closed connection: got %v, %v", ok, err)
	}
}
