package file

import "context"

// Next increments the shared id counter and returns the new value.
// Exactly one increment per call; the counter survives restarts through
// the snapshot.
func (s *Store) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idCounter++
	if err := s.flushApp(); err != nil {
		s.idCounter--
		return 0, err
	}
	return s.idCounter, nil
}
