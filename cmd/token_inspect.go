package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/cftools/pkg/auth"
)

var tokenInspectDump bool

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect [TOKEN]",
	Short: "Print the claims of the cached (or given) bearer token",
	Long: `Decodes the bearer token as a JWT without verifying it.
The Data API does not document the token format, so a token that is not a JWT
is reported but not treated as an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tokenInput string
		if len(args) == 1 {
			tokenInput = args[0]
		} else {
			store, err := f.Store(cmd.Context())
			if err != nil {
				return err
			}
			token, err := store.Load(cmd.Context())
			if errors.Is(err, auth.ErrNoToken) {
				log.Warn().Msg("no token cached, run 'cftools login' first")
				return BeQuietError{}
			}
			if err != nil {
				return logError(err, "", "reading token store failed")
			}
			tokenInput = token.Value
		}

		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(tokenInput, jwt.MapClaims{})
		if err != nil {
			log.Warn().Err(err).Msg("token is not a JWT, no claims to show")
			return nil
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fmt.Errorf("invalid token claims")
		}

		if tokenInspectDump {
			log.Info().Msg("Token Claims:")
			log.Info().Msg(spew.Sdump(claims))
		}

		return render(claims, func() {
			fmt.Println(bold("\n── Token Claims ──"))
			printKV("Algorithm", token.Method.Alg())
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				printKV("Subject (sub)", sub)
			}
			if iss, err := claims.GetIssuer(); err == nil && iss != "" {
				printKV("Issuer (iss)", iss)
			}
			if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
				printKV("Issued (iat)", iat.Local().Format(time.RFC1123))
			}
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				printKV("Expires (exp)", fmt.Sprintf("%s (in %s)",
					exp.Local().Format(time.RFC1123), time.Until(exp.Time).Round(time.Second)))
			}
		})
	},
}

func init() {
	tokenCmd.AddCommand(tokenInspectCmd)

	tokenInspectCmd.Flags().BoolVar(&tokenInspectDump, "dump", false, "Dump all claims")
}
