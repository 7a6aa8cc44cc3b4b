package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mmynk/hallcount/internal/matcher"
)

var matchThreshold int

var matchCmd = &cobra.Command{
	Use:   "match <head-count> <signature-count>",
	Short: "Compare a head count with a signature count",
	Example: `  hallcount match 42 40
  hallcount match -t 3 42 38
  hallcount match -- -1 5`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().IntVarP(&matchThreshold, "threshold", "t", matcher.DefaultThreshold, "Largest difference still considered a match")
	matchCmd.SetFlagErrorFunc(matchFlagError)
	rootCmd.AddCommand(matchCmd)
}

// matchFlagError reports a negative count mistaken for a shorthand flag as
// invalid input.
func matchFlagError(cmd *cobra.Command, err error) error {
	var notExist *pflag.NotExistError
	if errors.As(err, &notExist) {
		if n, convErr := strconv.Atoi(notExist.GetSpecifiedShortnames()); convErr == nil {
			return fmt.Errorf("%w: counts must be non-negative, got -%d", matcher.ErrInvalidInput, n)
		}
	}
	return err
}

func runMatch(cmd *cobra.Command, args []string) error {
	heads, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid head count %q: %w", args[0], err)
	}
	signatures, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid signature count %q: %w", args[1], err)
	}

	m, err := matcher.New(matchThreshold)
	if err != nil {
		return err
	}
	result, err := m.Match(heads, signatures)
	if err != nil {
		return err
	}

	writeMatch(cmd.OutOrStdout(), heads, signatures, result)
	return nil
}
