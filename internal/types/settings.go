package types

// Settings holds user-tunable behavior and credentials for the
// collaborator services. API keys live here rather than in environment
// configuration so a state export carries a complete installation.
//
// AutoCheckEnabled and AutoCheckTime are stored for forward compatibility
// but are not consulted by any timer: discovery runs only when explicitly
// triggered.
type Settings struct {
	RateLimitDelayMS    int      `json:"rate_limit_delay" validate:"gte=0"`
	AutoCheckEnabled    bool     `json:"auto_check_enabled"`
	AutoCheckTime       string   `json:"auto_check_time"`
	NotificationEnabled bool     `json:"notification_enabled"`
	PreferredLocations  []string `json:"preferred_locations"`
	GeminiAPIKey        string   `json:"gemini_api_key,omitempty"`
	GitHubToken         string   `json:"github_token,omitempty"`
}

// DefaultSettings returns the settings written on first access.
func DefaultSettings() Settings {
	return Settings{
		RateLimitDelayMS:    3000,
		AutoCheckEnabled:    false,
		AutoCheckTime:       "09:00",
		NotificationEnabled: true,
		PreferredLocations:  []string{},
	}
}
