package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	testCases := []struct {
		name    string
		frame   string
		want    []exchange.Tick
		wantErr bool
	}{
		{
			name:  "ticker array",
			frame: `[{"e":"24hrTicker","E":1,"s":"BTCUSDT","c":"50000.00","p":"1"},{"e":"24hrTicker","s":"ETHBTC","c":"0.05"}]`,
			want: []exchange.Tick{
				{Symbol: "BTCUSDT", LastPrice: "50000.00"},
				{Symbol: "ETHBTC", LastPrice: "0.05"},
			},
		},
		{
			name:  "single ticker",
			frame: `{"e":"24hrTicker","s":"ETHUSDT","c":"2500"}`,
			want:  []exchange.Tick{{Symbol: "ETHUSDT", LastPrice: "2500"}},
		},
		{
			name:  "combined stream",
			frame: `{"stream":"!ticker@arr","data":[{"s":"BNBUSDT","c":"600"}]}`,
			want:  []exchange.Tick{{Symbol: "BNBUSDT", LastPrice: "600"}},
		},
		{
			name:  "empty array",
			frame: `[]`,
			want:  []exchange.Tick{},
		},
		{name: "garbage", frame: `not json`, wantErr: true},
		{name: "empty", frame: `  `, wantErr: true},
		{name: "wrong shape", frame: `[1,2,3]`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeFrame([]byte(tc.frame))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// newTickerServer 每个连接依次发送 frames, 然后按 hold 决定保持还是断开
func newTickerServer(t *testing.T, frames []string, hold bool, conns *atomic.Int32) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		conns.Add(1)
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		if !hold {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestTickerService_SubscribeTickers(t *testing.T) {
	var conns atomic.Int32
	srv := newTickerServer(t, []string{
		`[{"s":"BTCUSDT","c":"50000"}]`,
		`definitely not json`,
		`[{"s":"ETHUSDT","c":"2500"},{"s":"ETHBTC","c":"0.05"}]`,
	}, true, &conns)
	defer srv.Close()

	s := NewTickerService(Config{URL: wsURL(srv)})
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.SubscribeTickers(ctx)
	require.NoError(t, err)

	var batches [][]exchange.Tick
	for len(batches) < 2 {
		select {
		case b := <-ch:
			batches = append(batches, b)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for batches")
		}
	}
	assert.Equal(t, []exchange.Tick{{Symbol: "BTCUSDT", LastPrice: "50000"}}, batches[0])
	assert.Len(t, batches[1], 2)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
	assert.Equal(t, int32(1), conns.Load())
}

func TestTickerService_Reconnects(t *testing.T) {
	var conns atomic.Int32
	srv := newTickerServer(t, []string{`[{"s":"BTCUSDT","c":"50000"}]`}, false, &conns)
	defer srv.Close()

	s := NewTickerService(Config{
		URL:        wsURL(srv),
		MinBackoff: time.Millisecond,
		MaxBackoff: 10 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.SubscribeTickers(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		select {
		case b := <-ch:
			require.Len(t, b, 1)
		case <-time.After(2 * time.Second):
			t.Fatalf("no batch after reconnect %d", i)
		}
	}
	assert.GreaterOrEqual(t, conns.Load(), int32(3))
}

func TestTickerService_DialError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := NewTickerService(Config{URL: wsURL(srv)})
	_, err := s.SubscribeTickers(context.Background())
	assert.Error(t, err)
}
