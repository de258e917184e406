package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/expirylens/backend/internal/infrastructure/dateparse"
	"github.com/expirylens/backend/internal/usecase"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type detectOptions struct {
	category    string
	captureDate string
	now         string
	asJSON      bool
	debug       bool
}

func newRootCommand() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "expiryctl",
		Short:         "Extract expiry dates from OCR words",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(cmd.ErrOrStderr())
			if debug {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log every detection step")

	root.AddCommand(newDetectCommand(&debug), newTokensCommand())
	return root
}

func newDetectCommand(debug *bool) *cobra.Command {
	opts := &detectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <word>...",
		Short: "Print the expiry date found in the given words",
		Example: `  expiryctl detect best before 20jun27
  expiryctl detect --category milk --capture-date 2026-03-01 use by 12.03.26`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.debug = *debug
			return runDetect(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "product category selecting a shelf-life window, one of: "+strings.Join(domain.Categories(), ", "))
	cmd.Flags().StringVar(&opts.captureDate, "capture-date", "", "photo capture date (YYYY-MM-DD) used as threshold")
	cmd.Flags().StringVar(&opts.now, "now", "", "pin the current date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")

	return cmd
}

func runDetect(cmd *cobra.Command, opts *detectOptions, args []string) error {
	clock := time.Now
	if opts.now != "" {
		pinned, err := parseClock(opts.now)
		if err != nil {
			return err
		}
		clock = func() time.Time { return pinned }
	}

	request := &domain.DetectRequest{
		Texts:    args,
		Category: opts.category,
	}
	if opts.captureDate != "" {
		captured, err := time.Parse(dateLayout, opts.captureDate)
		if err != nil {
			return errors.Wrap(err, "invalid --capture-date")
		}
		request.CaptureDate = &captured
	}

	detector := usecase.NewExpiryDetector(dateparse.NewParser(), usecase.DetectorConfig{
		EnableDebugLogging: opts.debug,
	})
	service := usecase.NewExpiryService(detector, nil, nil, nil, nil, usecase.ExpiryServiceConfig{
		EnableDebugLogging: opts.debug,
		Clock:              clock,
	})

	result, err := service.DetectExpiry(cmd.Context(), request)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if result.ExpiryDate == nil {
		fmt.Fprintln(out, result.Message)
		return nil
	}
	fmt.Fprintln(out, result.ExpiryDate.Format(dateLayout))
	return nil
}

func parseClock(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "invalid --now")
	}
	return t, nil
}

func newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <word>...",
		Short: "Print the tokens and month matches the detector sees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detector := usecase.NewExpiryDetector(nil, usecase.DetectorConfig{})
			tokens := detector.Decompose(args)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tokens: %s\n", strings.Join(tokens, " "))

			months := detector.FindMonths(tokens)
			if len(months) == 0 {
				fmt.Fprintln(out, "months: none")
				return nil
			}
			for _, match := range months {
				fmt.Fprintf(out, "month: %q at %d (distance %d)\n", match.Month, match.Index, match.Distance)
			}
			return nil
		},
	}
}
