package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/service/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTickerService struct {
	mock.Mock
}

func (m *MockTickerService) SubscribeTickers(ctx context.Context) (<-chan []exchange.Tick, error) {
	args := m.Called(ctx)
	ch, _ := args.Get(0).(<-chan []exchange.Tick)
	return ch, args.Error(1)
}

func TestEngine_RunUntilFeedCloses(t *testing.T) {
	ch := make(chan []exchange.Tick, 2)
	ch <- []exchange.Tick{
		{Symbol: "BTCUSDT", LastPrice: "50000"},
		{Symbol: "ETHBTC", LastPrice: "0.05"},
		{Symbol: "ETHUSDT", LastPrice: "2500"},
	}
	ch <- []exchange.Tick{{Symbol: "ETHUSDT", LastPrice: "2600"}}
	close(ch)

	feed := &MockTickerService{}
	feed.On("SubscribeTickers", mock.Anything).Return((<-chan []exchange.Tick)(ch), nil)

	sink := &recordSink{}
	p, _ := newTestProcessor(WithSink(sink))
	e := NewEngine(feed, p)

	require.NoError(t, e.Run(context.Background()))
	feed.AssertExpectations(t)

	require.Len(t, sink.results, 2)
	assert.False(t, sink.results[0].Found)
	assert.True(t, sink.results[1].Found)
	assert.Equal(t, int64(2), p.Stats().Batches)
	assert.Equal(t, "arbitrage engine", e.Name())
}

func TestEngine_RunCancelled(t *testing.T) {
	ch := make(chan []exchange.Tick)
	feed := &MockTickerService{}
	feed.On("SubscribeTickers", mock.Anything).Return((<-chan []exchange.Tick)(ch), nil)

	p, _ := newTestProcessor()
	e := NewEngine(feed, p)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(0), p.Stats().Batches)
}

func TestEngine_SubscribeError(t *testing.T) {
	feed := &MockTickerService{}
	feed.On("SubscribeTickers", mock.Anything).Return(nil, errors.New("dial failed"))

	p, _ := newTestProcessor()
	err := NewEngine(feed, p).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial failed")
}
