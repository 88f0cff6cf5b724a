package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
	"homeclean-backend/internal/config"
	"homeclean-backend/internal/models"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// ForUser returns a PostgREST client that acts as the bearer of accessToken,
// so row level security applies to everything it reads.
func (c *Client) ForUser(accessToken string) (*supabase.Client, error) {
	return supabase.NewClient(c.Config.SupabaseURL, c.Config.SupabasePublishableKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	})
}

// FetchProfiles returns the profile rows visible to the caller.
func (c *Client) FetchProfiles(accessToken, userID string) ([]models.Profile, error) {
	client, err := c.ForUser(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create user client: %w", err)
	}

	var profiles []models.Profile
	_, err = client.From("profiles").
		Select("*", "", false).
		Eq("user_id", userID).
		ExecuteTo(&profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	if profiles == nil {
		profiles = make([]models.Profile, 0)
	}
	return profiles, nil
}
