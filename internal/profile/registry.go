package profile

// DefaultName is the profile used when none is configured.
const DefaultName = "php-cs-fixer"

var registry []*Profile

// Register adds a profile to the global registry.
func Register(p *Profile) {
	registry = append(registry, p)
}

// All returns a copy of all registered profiles.
func All() []*Profile {
	result := make([]*Profile, len(registry))
	copy(result, registry)
	return result
}

// ByName returns the registered profile with the given name, or nil.
func ByName(name string) *Profile {
	for _, p := range registry {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Default returns the default profile.
func Default() *Profile {
	return ByName(DefaultName)
}

// Reset clears the registry. Used for testing.
func Reset() {
	registry = nil
}
