package config

// PortalConfig holds limits for the feature pages and profile images.
type PortalConfig struct {
	// AvatarMaxBytes caps the stored avatar data URL.
	AvatarMaxBytes int `env:"PORTAL_AVATAR_MAX_BYTES" envDefault:"524288"`

	// SeedData loads the embedded sample records at startup.
	SeedData bool `env:"PORTAL_SEED_DATA" envDefault:"true"`
}

// Sanitize clamps the avatar limit to a sane range.
func (c *PortalConfig) Sanitize() {
	const (
		minAvatar = 1 << 10
		maxAvatar = 2 << 20
	)
	switch {
	case c.AvatarMaxBytes <= 0:
		c.AvatarMaxBytes = 512 << 10
	case c.AvatarMaxBytes < minAvatar:
		c.AvatarMaxBytes = minAvatar
	case c.AvatarMaxBytes > maxAvatar:
		c.AvatarMaxBytes = maxAvatar
	}
}
