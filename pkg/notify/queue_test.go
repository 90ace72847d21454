package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/neobank/internal/logging"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Deliver(ctx context.Context, toast Toast) error {
	args := m.Called(ctx, toast)
	return args.Error(0)
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) record(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) snapshot() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

type QueueTestSuite struct {
	suite.Suite
	queue *Queue
}

func TestQueueSuite(t *testing.T) {
	suite.Run(t, new(QueueTestSuite))
}

func (s *QueueTestSuite) SetupTest() {
	s.queue = NewQueue(WithLifetime(100*time.Millisecond), WithLogger(logging.Discard))
}

func (s *QueueTestSuite) TearDownTest() {
	s.queue.Close()
}

func (s *QueueTestSuite) TestPublishAppearsThenExpires() {
	// Execute
	toast := s.queue.Publish("Access granted", Success)

	// Assert
	entries := s.queue.Entries()
	s.Require().Len(entries, 1)
	s.Equal(toast.ID, entries[0].ID)
	s.Equal("Access granted", entries[0].Message)
	s.Equal(Success, entries[0].Kind)
	s.Equal(toast.CreatedAt.Add(100*time.Millisecond), toast.ExpiresAt)

	s.Eventually(func() bool {
		return len(s.queue.Entries()) == 0
	}, time.Second, 10*time.Millisecond)
}

func (s *QueueTestSuite) TestEachToastExpiresIndependently() {
	// Setup
	first := s.queue.Publish("first", Success)
	time.Sleep(60 * time.Millisecond)

	// Execute
	second := s.queue.Publish("second", Error)

	// Assert
	s.Eventually(func() bool {
		entries := s.queue.Entries()
		return len(entries) == 1 && entries[0].ID == second.ID
	}, time.Second, 5*time.Millisecond, "first toast should leave before the second")
	s.NotEqual(first.ID, second.ID)

	s.Eventually(func() bool {
		return len(s.queue.Entries()) == 0
	}, time.Second, 10*time.Millisecond)
}

func (s *QueueTestSuite) TestIdenticalMessagesAreDistinct() {
	a := s.queue.Publish("Disconnected", Success)
	b := s.queue.Publish("Disconnected", Success)

	s.NotEqual(a.ID, b.ID)
	s.Len(s.queue.Entries(), 2)
}

func (s *QueueTestSuite) TestEntriesInPublishOrder() {
	s.queue.Publish("one", Success)
	s.queue.Publish("two", Error)
	s.queue.Publish("three", Success)

	entries := s.queue.Entries()
	s.Require().Len(entries, 3)
	s.Equal("one", entries[0].Message)
	s.Equal("two", entries[1].Message)
	s.Equal("three", entries[2].Message)
}

func (s *QueueTestSuite) TestDismiss() {
	// Setup
	toast := s.queue.Publish("gone soon", Success)

	// Execute
	removed := s.queue.Dismiss(toast.ID)

	// Assert
	s.True(removed)
	s.Empty(s.queue.Entries())
	s.False(s.queue.Dismiss(toast.ID), "Dismissing twice is a no-op")
}

func (s *QueueTestSuite) TestSubscribersSeeAddAndRemove() {
	// Setup
	rec := &recorder{}
	cancel := s.queue.Subscribe(rec.record)
	defer cancel()

	// Execute
	toast := s.queue.Publish("You won ¤50!", Success)

	// Assert
	s.Eventually(func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	changes := rec.snapshot()
	s.Equal(Added, changes[0].Type)
	s.Equal(toast.ID, changes[0].Toast.ID)
	s.Equal(Removed, changes[1].Type)
	s.Equal(toast.ID, changes[1].Toast.ID)
}

func (s *QueueTestSuite) TestUnsubscribe() {
	// Setup
	rec := &recorder{}
	cancel := s.queue.Subscribe(rec.record)
	cancel()

	// Execute
	s.queue.Publish("nobody listens", Success)
	time.Sleep(30 * time.Millisecond)

	// Assert
	s.Empty(rec.snapshot())
}

func (s *QueueTestSuite) TestSubscriberMayPublish() {
	// Setup
	var once sync.Once
	s.queue.Subscribe(func(c Change) {
		if c.Type == Added {
			once.Do(func() {
				s.queue.Publish("follow-up", Success)
			})
		}
	})

	// Execute
	s.queue.Publish("trigger", Success)

	// Assert
	s.Eventually(func() bool {
		return len(s.queue.Entries()) == 2
	}, time.Second, 5*time.Millisecond)
}

func (s *QueueTestSuite) TestSinksReceiveEveryToast() {
	// Setup
	sink := &mockSink{}
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(t Toast) bool {
		return t.Category == CategoryWin
	})).Return(nil).Once()
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(t Toast) bool {
		return t.Category == CategoryGeneral
	})).Return(errors.New("webhook down")).Once()
	queue := NewQueue(WithLifetime(50*time.Millisecond), WithSink(sink), WithLogger(logging.Discard))

	// Execute
	queue.PublishCategory("You won ¤250!", Success, CategoryWin)
	queue.Publish("Profile updated successfully", Success)
	queue.Close()

	// Assert
	sink.AssertExpectations(s.T())
}

func (s *QueueTestSuite) TestCloseIsIdempotent() {
	s.queue.Close()
	s.queue.Close()
}
