package nexus

// SetIDFunc overrides the id generator of an IdentityStore for tests.
func SetIDFunc(s *IdentityStore, fn func() string) {
	s.newID = fn
}
