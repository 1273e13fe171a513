package config

import "os"

// PlanGenConfig holds the settings for the external remediation-plan
// generation service
type PlanGenConfig struct {
	WebhookURL   string `json:"webhookUrl"`
	APIKey       string `json:"-"` // Never serialize
	TimeoutMS    int    `json:"timeoutMs"`
	PollSeconds  int    `json:"pollSeconds"`
}

// DefaultPlanGenConfig returns the default plan-generation configuration
func DefaultPlanGenConfig() *PlanGenConfig {
	return &PlanGenConfig{
		WebhookURL:  os.Getenv("PLANGEN_WEBHOOK_URL"),
		APIKey:      os.Getenv("PLANGEN_API_KEY"),
		TimeoutMS:   10000, // 10 second default timeout
		PollSeconds: 5,
	}
}

// IsEnabled returns true if the plan-generation webhook is configured
func (c *PlanGenConfig) IsEnabled() bool {
	return c.WebhookURL != ""
}
