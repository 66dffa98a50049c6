package main

// validatePattern reports whether pattern is a non-empty literal basename,
// per spec.md §6 ("PATTERN is a literal basename, required, non-empty").
func validatePattern(pattern string) bool {
	return pattern != ""
}
