package cli

import (
	"fmt"
	"time"

	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/service/auth"
	"github.com/spf13/cobra"
)

// TokenCmd mints a development access token / Génère un jeton d'accès de développement
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local testing",
		Long: `Mint an HS256 access token signed with auth.jwt_secret and auth.issuer.

The token is printed alone on stdout so it can be captured:
  export TOKEN=$(delegctl token --user u-1 --email u1@example.com)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			if !domain.UserRole(role).IsValid() {
				return fmt.Errorf("invalid role: %s\nValid roles: user, moderator, admin", role)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s minting a token with the production secret\n", markWarn)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenDuration
			}

			token, expiresAt, err := auth.GenerateAccessToken(userID, email, role, cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s token for %s (%s) expires %s\n", markOK, userID, role, expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().String("user", "", "subject (user id)")
	cmd.Flags().String("email", "", "email claim")
	cmd.Flags().String("role", string(domain.RoleUser), "role claim: user, moderator or admin")
	cmd.Flags().Duration("ttl", 0, "token lifetime (default auth.access_token_duration)")

	return cmd
}
