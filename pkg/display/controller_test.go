package display

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort records writes. When gate is set, the first write blocks until
// the gate is closed.
type fakePort struct {
	mu      sync.Mutex
	writes  [][]byte
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
	failAll bool
	closed  bool
}

func newGatedPort() *fakePort {
	return &fakePort{gate: make(chan struct{}), started: make(chan struct{})}
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.gate != nil {
		p.once.Do(func() {
			close(p.started)
			<-p.gate
		})
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return 0, errors.New("device unplugged")
	}
	p.writes = append(p.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (p *fakePort) Drain() error { return nil }

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// texts returns the text payloads, skipping the reset sequences.
func (p *fakePort) texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, w := range p.writes {
		if len(w) > 0 && w[0] == cmdClear {
			continue
		}
		out = append(out, string(w))
	}
	return out
}

func (p *fakePort) resets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, w := range p.writes {
		if string(w) == "\x0c\x1b@" {
			n++
		}
	}
	return n
}

func openerFor(p Port) Opener {
	return func(string, int) (Port, error) { return p, nil }
}

func testConfig() Config {
	return Config{
		PortName: "/dev/ttyUSB0",
		BaudRate: 9600,
		Format:   Format{Width: 20, Title: "Corner Grill", Greeting: "Welcome!", CurrencySymbol: "$"},
	}
}

func TestController_CoalescesToLatestState(t *testing.T) {
	port := newGatedPort()
	c := NewController(testConfig(), openerFor(port), nil)
	require.NoError(t, c.Connect(context.Background(), "", 0))

	require.True(t, c.RequestState(Welcome()))
	<-port.started
	assert.Equal(t, Writing, c.State())

	c.RequestState(Total(decimal.RequireFromString("1.00")))
	c.RequestState(Total(decimal.RequireFromString("2.00")))
	c.RequestState(Total(decimal.RequireFromString("3.00")))
	close(port.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Flush(ctx))

	texts := port.texts()
	require.Len(t, texts, 2, "exactly one write follows the in-flight one")
	assert.Equal(t, "    Corner Grill          Welcome!      ", texts[0])
	assert.Equal(t, "       TOTAL        Total:         $3.00", texts[1])
	assert.Equal(t, 2, port.resets())
	for _, txt := range texts {
		assert.NotContains(t, txt, "$1.00")
		assert.NotContains(t, txt, "$2.00")
	}

	st := c.Status()
	assert.True(t, st.Connected)
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, 2, st.Writes)
	require.NotNil(t, st.Showing)
	assert.Equal(t, KindTotal, st.Showing.Kind)
}

func TestController_IgnoresRequestsWhenDisconnected(t *testing.T) {
	port := &fakePort{}
	c := NewController(testConfig(), openerFor(port), nil)

	assert.False(t, c.RequestState(Welcome()))
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, port.texts())
}

func TestController_OpenFailure(t *testing.T) {
	c := NewController(testConfig(), func(string, int) (Port, error) {
		return nil, errors.New("no such file or directory")
	}, nil)

	err := c.Connect(context.Background(), "/dev/ttyUSB9", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPortUnavailable))
	assert.Equal(t, Disconnected, c.State())
	assert.False(t, c.RequestState(Welcome()))
}

func TestController_WriteErrorDisconnectsWithoutReconnect(t *testing.T) {
	port := &fakePort{failAll: true}
	opens := 0
	c := NewController(testConfig(), func(string, int) (Port, error) {
		opens++
		return port, nil
	}, nil)
	require.NoError(t, c.Connect(context.Background(), "", 0))

	require.True(t, c.RequestState(Welcome()))
	require.NoError(t, c.Flush(context.Background()))

	assert.Equal(t, Disconnected, c.State())
	assert.True(t, port.closed)
	assert.False(t, c.RequestState(Total(decimal.NewFromInt(5))))
	assert.Equal(t, 1, opens)

	port.failAll = false
	require.NoError(t, c.Connect(context.Background(), "", 0))
	assert.True(t, c.RequestState(Welcome()))
	require.NoError(t, c.Flush(context.Background()))
	assert.Len(t, port.texts(), 1)
}

func TestController_CloseAbandonsPending(t *testing.T) {
	port := newGatedPort()
	c := NewController(testConfig(), openerFor(port), nil)
	require.NoError(t, c.Connect(context.Background(), "", 0))

	c.RequestState(Welcome())
	<-port.started
	c.RequestState(Total(decimal.NewFromInt(9)))

	require.NoError(t, c.Close())
	require.NoError(t, c.Flush(context.Background()))
	close(port.gate)

	assert.Equal(t, Disconnected, c.State())
	assert.False(t, c.Status().Connected)
	assert.Eventually(t, func() bool { return len(port.texts()) <= 1 }, time.Second, 10*time.Millisecond)
	for _, txt := range port.texts() {
		assert.False(t, strings.Contains(txt, "$9.00"))
	}
}

func TestController_FlushHonoursContext(t *testing.T) {
	port := newGatedPort()
	c := NewController(testConfig(), openerFor(port), nil)
	require.NoError(t, c.Connect(context.Background(), "", 0))
	c.RequestState(Welcome())
	<-port.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Flush(ctx), context.DeadlineExceeded)

	close(port.gate)
	require.NoError(t, c.Flush(context.Background()))
}

// gatedOpener blocks each open until its release channel is closed.
type gatedOpener struct {
	mu      sync.Mutex
	ports   map[string]*fakePort
	opening chan string
	release map[string]chan struct{}
}

func newGatedOpener(names ...string) *gatedOpener {
	g := &gatedOpener{
		ports:   make(map[string]*fakePort),
		opening: make(chan string, len(names)),
		release: make(map[string]chan struct{}),
	}
	for _, n := range names {
		g.ports[n] = &fakePort{}
		g.release[n] = make(chan struct{})
	}
	return g
}

func (g *gatedOpener) open(name string, _ int) (Port, error) {
	g.opening <- name
	<-g.release[name]
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ports[name], nil
}

func (g *gatedOpener) port(name string) *fakePort {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ports[name]
}

func TestController_CloseDuringConnectWins(t *testing.T) {
	g := newGatedOpener("a")
	c := NewController(testConfig(), g.open, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Connect(context.Background(), "a", 0) }()
	<-g.opening
	assert.Equal(t, Connecting, c.State())

	require.NoError(t, c.Close())
	close(g.release["a"])

	err := <-errCh
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPortUnavailable))
	assert.Equal(t, Disconnected, c.State())
	assert.False(t, c.RequestState(Welcome()))

	p := g.port("a")
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.True(t, p.closed, "late port is closed")
}

func TestController_OverlappingConnectsKeepOnePort(t *testing.T) {
	g := newGatedOpener("a", "b")
	c := NewController(testConfig(), g.open, nil)

	errA := make(chan error, 1)
	go func() { errA <- c.Connect(context.Background(), "a", 0) }()
	require.Equal(t, "a", <-g.opening)

	errB := make(chan error, 1)
	go func() { errB <- c.Connect(context.Background(), "b", 0) }()
	require.Equal(t, "b", <-g.opening)

	close(g.release["b"])
	require.NoError(t, <-errB)
	assert.Equal(t, Connected, c.State())

	close(g.release["a"])
	err := <-errA
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPortUnavailable))
	assert.Equal(t, Connected, c.State(), "stale open does not replace the live port")

	require.NoError(t, c.Close())
	for _, name := range []string{"a", "b"} {
		p := g.port(name)
		p.mu.Lock()
		assert.True(t, p.closed, "port %s closed", name)
		p.mu.Unlock()
	}
}

func TestController_ConnectCancelledDuringOpen(t *testing.T) {
	g := newGatedOpener("a")
	c := NewController(testConfig(), g.open, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- c.Connect(ctx, "a", 0) }()
	<-g.opening
	cancel()
	close(g.release["a"])

	err := <-errCh
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Disconnected, c.State())
	assert.True(t, g.port("a").closed)
}
