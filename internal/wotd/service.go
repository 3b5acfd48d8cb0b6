package wotd

import "context"

// Service groups the coordinators of both namespaces.
type Service struct {
	Main   *Coordinator
	Puzzle *Coordinator
}

// TodayWord is the main game's word.
func (s *Service) TodayWord(ctx context.Context, force bool, salt string) (string, error) {
	return s.Main.Word(ctx, force, salt)
}

// PuzzleWord is the puzzle's word.
func (s *Service) PuzzleWord(ctx context.Context, force bool, salt string) (string, error) {
	return s.Puzzle.Word(ctx, force, salt)
}

// ResetWordCache clears both in-process caches.
func (s *Service) ResetWordCache() {
	s.Main.ResetCache()
	s.Puzzle.ResetCache()
}

// Coordinators lists every coordinator, main first.
func (s *Service) Coordinators() []*Coordinator {
	return []*Coordinator{s.Main, s.Puzzle}
}
