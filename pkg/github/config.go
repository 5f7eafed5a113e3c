package github

import "errors"

// Config holds GitHub content API settings
type Config struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string // default: https://api.github.com
}

// Validate checks that required fields are present
func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("github: token is required")
	}
	if c.Owner == "" {
		return errors.New("github: owner is required")
	}
	if c.Repo == "" {
		return errors.New("github: repo is required")
	}
	return nil
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "https://api.github.com"
}
