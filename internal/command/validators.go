// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func NotEmptyValidator(value any) error {
	if value.(string) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if toFloat(value) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func PositiveValidator(value any) error {
	if toFloat(value) <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

// CheckFlagsValidator runs before every check command. The numeric flags are
// validated here rather than on the flags so a bad value from the config file
// is reported the same way as one from the command line.
func CheckFlagsValidator(_ context.Context, cmd *cli.Command) error {
	if err := FlagValidators(cmd.Int("max-events"), NonNegativeValidator); err != nil {
		return fmt.Errorf("--max-events %w", err)
	}
	if err := FlagValidators(cmd.Float("sqrt-s"), PositiveValidator); err != nil {
		return fmt.Errorf("--sqrt-s %w", err)
	}

	m := GetMeta(cmd)
	if cmd.Bool("no-save") && !cmd.Bool("redo") && !m.Settings.ImgRedoAll {
		return fmt.Errorf("--no-save: %w", cache.ErrNoSaveRequiresRedo)
	}
	return nil
}
