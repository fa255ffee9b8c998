package password

const (
	// Default is assigned when a new user is created without a password
	Default = "123456"

	// MinLength is the minimum accepted password length
	MinLength = 6
)

// Verify compares a submitted password with the stored one.
// Passwords are stored in plaintext; swap this for salted hashing before
// exposing the service beyond a trusted network.
func Verify(submitted, stored string) bool {
	return submitted == stored
}

// Validate checks if a password meets requirements
func Validate(pw string) bool {
	return len(pw) >= MinLength
}
