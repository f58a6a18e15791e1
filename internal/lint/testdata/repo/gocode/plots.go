package gocode

func plots(s *Store) {
	s.LoadOrMake([]string{"go_inline", "go_table.csv"}, Options{}, nil)

	names := []string{"counts.csv"}
	s.LoadOrMake(names, Options{}, nil)
}
