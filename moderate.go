package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/simshi01/thansgiving-day/app/moderation"
	"github.com/spf13/cobra"
)

func newModerateCmd() *cobra.Command {
	var (
		configPath string
		maxLength  int
	)

	cmd := &cobra.Command{
		Use:   "moderate [text]",
		Short: "Check messages against the moderation filter",
		Long: `Runs text through the same length and word checks as the server.

With arguments, checks them joined as one message. Without, checks every
line of stdin. Exits non-zero if anything is rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if maxLength <= 0 {
				maxLength = cfg.Moderation.MaxLength
			}
			filter := moderation.WithLimit(maxLength)

			if len(args) > 0 {
				return runModerate(cmd.OutOrStdout(), filter, []string{strings.Join(args, " ")})
			}
			var lines []string
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				lines = append(lines, sc.Text())
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("moderate: read input: %w", err)
			}
			return runModerate(cmd.OutOrStdout(), filter, lines)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "override moderation.max_length")
	return cmd
}

func runModerate(out io.Writer, filter *moderation.Filter, texts []string) error {
	rejected := 0
	for _, text := range texts {
		res := filter.Validate(text)
		if res.OK() {
			fmt.Fprintf(out, "ok\t%s\n", text)
			continue
		}
		rejected++
		fmt.Fprintf(out, "%s\t%s\t%s\n", res.Kind, text, res.Reason)
	}
	if rejected > 0 {
		return fmt.Errorf("moderate: %d of %d rejected", rejected, len(texts))
	}
	return nil
}
