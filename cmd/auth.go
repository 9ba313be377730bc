package main

import (
	"context"

	"github.com/desertthunder/spotrec/internal/services"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the Spotify authorization URL for the configured client.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	oauth, err := services.NewOAuthManager(config, r.logger)
	if err != nil {
		return err
	}

	if err := r.writePlain("%s\n", styles.title.Render("Spotify authorization URL")); err != nil {
		return err
	}
	if err := r.writePlain("%s\n", oauth.AuthorizeURL()); err != nil {
		return err
	}
	return r.writeHint("Spotify will redirect to %s after consent.", config.Credentials.Spotify.RedirectURI)
}
