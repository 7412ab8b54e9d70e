package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/journalized/internal/config"
)

// ValidationError is one problem found in a config directory.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Types  []string          `json:"types,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Validate journaling config",
		Long: `Validate the CUE files declaring journaled types and their only,
except and journal_on_create options. Reports every invalid type with its
file and line.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	res, errs := config.LoadDir(dir, config.LoadModeCollectAll)

	// Directory not found, no files, CUE build failure
	if res == nil && len(errs) > 0 {
		var loadErr *config.LoadError
		if errors.As(errs[0], &loadErr) {
			_ = f.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
		}
		_ = f.Error(ErrCodeGeneric, errs[0].Error(), nil)
		return NewExitError(ExitCommandError, errs[0].Error())
	}

	f.VerboseLog("Found %d CUE file(s) in %s", res.FileCount, dir)
	for _, tc := range res.Types {
		f.VerboseLog("Validated journaled type: %s", tc.Name)
	}

	if len(errs) > 0 {
		return outputValidationErrors(f, toValidationErrors(errs))
	}

	types := make([]string, 0, len(res.Types))
	for _, tc := range res.Types {
		types = append(types, tc.Name)
	}
	return f.Success(
		fmt.Sprintf("✓ Config valid (%d journaled type(s))", len(types)),
		ValidationResult{Valid: true, Types: types},
	)
}

func toValidationErrors(errs []error) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, err := range errs {
		var ce *config.CompileError
		if errors.As(err, &ce) {
			ve := ValidationError{Code: ce.Code(), Field: ce.Field, Message: ce.Message}
			if ce.Pos.IsValid() {
				ve.File = ce.Pos.Filename()
				ve.Line = ce.Pos.Line()
			}
			out = append(out, ve)
			continue
		}
		out = append(out, ValidationError{Code: ErrCodeGeneric, Message: err.Error()})
	}
	return out
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(f *OutputFormatter, errs []ValidationError) error {
	if f.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(f.Writer, "%s:%d\n", err.File, err.Line)
		}
		fmt.Fprintf(f.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
