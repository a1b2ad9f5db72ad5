package uri

// WithFragment returns a copy of u with the fragment replaced by frag
// (without a leading '#').
func (u URI) WithFragment(frag string) URI {
	return u.Copy(Keep(), Keep(), Keep(), Keep(), Replace(frag))
}
