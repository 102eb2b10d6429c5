package postgres

import (
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/logger"
)

const listenerPingInterval = 90 * time.Second

func (s *Store) OnExternalUpdate(fn func()) {
	s.observers.Add(fn)
}

// StartWatching subscribes to the notification channel fed by the table
// triggers. A reconnect also fires the callbacks since notifications sent
// while disconnected are lost.
func (s *Store) StartWatching() error {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()

	if s.listener != nil {
		return nil
	}

	l := pq.NewListener(s.connStr, constants.ListenerMinRetry, constants.ListenerMaxRetry, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Postgres listener event", "event", ev, "error", err)
		}
	})
	if err := l.Listen(constants.NotifyChannel); err != nil {
		l.Close()
		return fmt.Errorf("failed to listen on %s: %w", constants.NotifyChannel, err)
	}

	s.listener = l
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.listen(l, s.stop, s.done)
	logger.Debug("Listening for external changes", "channel", constants.NotifyChannel)
	return nil
}

func (s *Store) listen(l *pq.Listener, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case n, ok := <-l.Notify:
			if !ok {
				return
			}
			if n == nil {
				logger.Debug("Postgres listener reconnected")
			} else {
				logger.Debug("External change detected", "table", n.Extra)
			}
			s.observers.Fire()
		case <-time.After(listenerPingInterval):
			go func() {
				if err := l.Ping(); err != nil {
					logger.Warn("Postgres listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (s *Store) StopWatching() {
	s.listenMu.Lock()
	l, stop, done := s.listener, s.stop, s.done
	s.listener, s.stop, s.done = nil, nil, nil
	s.listenMu.Unlock()

	if l == nil {
		return
	}
	close(stop)
	<-done
	if err := l.Close(); err != nil {
		logger.Warn("Failed to close Postgres listener", "error", err)
	}
}
