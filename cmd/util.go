package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/darmiel/cftools/internal/config"
	"github.com/darmiel/cftools/internal/logging"
	"github.com/darmiel/cftools/pkg/auth"
	"github.com/darmiel/cftools/pkg/client"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()

	greenCheck = green("✔")
	redCross   = red("✖")
)

// BeQuietError is returned after the failure has already been logged.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "command failed"
}

// logError logs err with a hint for the common API failures and returns BeQuietError.
func logError(err error, correlationID, msg string) error {
	event := log.Error()
	if correlationID != "" {
		event = event.Str("correlation_id", correlationID)
	}
	event.Msgf("%s %s", redCross, msg)
	log.Error().Msgf("error: %v", err)

	var credErr *auth.CredentialError
	var transportErr *auth.TransportError
	switch {
	case errors.As(err, &credErr):
		log.Error().Msg("the application credential was rejected, check application_id and secret")
	case errors.As(err, &transportErr):
		log.Error().Msg("the API could not be reached, check base_url and your network")
	case errors.Is(err, client.ErrRateLimited):
		log.Error().Msg("rate limited by the API, try again in a minute")
	case errors.Is(err, client.ErrForbidden):
		log.Error().Msg("the application has no grant for this resource (see 'cftools grants')")
	case errors.Is(err, client.ErrMissingServerID):
		log.Error().Msg("provide the server API id via --server-id or CFTOOLS_SERVER_API_ID")
	case errors.Is(err, client.ErrMissingBanlistID):
		log.Error().Msg("provide the banlist id via --banlist-id or CFTOOLS_BANLIST_ID")
	}
	return BeQuietError{}
}

func logSuccess(format string, args ...any) {
	log.Info().Msgf("%s %s", greenCheck, fmt.Sprintf(format, args...))
}

func applyTableFormat(t table.Writer) {
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	if viper.GetBool(logging.NoColorKey) {
		t.Style().Color = table.ColorOptions{}
	}
}

// render writes v as JSON or YAML if requested, otherwise calls printTable.
func render(v any, printTable func()) error {
	switch strings.ToLower(viper.GetString(config.OutputKey)) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		printTable()
		return nil
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	return t
}

func printKV(key string, val any) {
	fmt.Printf("  %-26s %v\n", faint(key)+":", val)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
