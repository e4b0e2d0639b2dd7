package config

const redacted = "[REDACTED]"

// Secret holds the deployer private key. Every printing or encoding path renders
// it as [REDACTED]; only Reveal returns the raw value.
type Secret struct {
	value string
}

func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the raw credential. Callers must not log or persist it.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether no credential was configured
func (s Secret) IsZero() bool {
	return s.value == ""
}

func (s Secret) String() string {
	return redacted
}

func (s Secret) GoString() string {
	return redacted
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
