package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	sigform "github.com/goliatone/go-sigform"
	"github.com/goliatone/go-sigform/pkg/export"
	"github.com/goliatone/go-sigform/pkg/renderers/text"
	"github.com/goliatone/go-sigform/pkg/renderers/tui"
	"github.com/goliatone/go-sigform/pkg/validation"
)

// NewEditCommand opens the interactive editor.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var walk bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the draft interactively",
		Long: `Edit the draft section by section. Every answer is saved right away, so
an interrupted session keeps what was entered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.close()

			driver := rootOpts.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.OutOrStdout())
			}
			editor, err := s.app.Editor(
				tui.WithPromptDriver(driver),
				tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
			)
			if err != nil {
				return err
			}

			ctx := contextOf(cmd)
			if walk {
				err = editor.EditAll(ctx)
			}
			if err == nil {
				err = editor.Run(ctx)
			}
			if errors.Is(err, tui.ErrAborted) {
				s.logger.Debug("edit aborted, draft kept")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&walk, "walk", "w", false, "walk every section before showing the menu")
	return cmd
}

// NewCheckCommand validates the draft.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the draft against the submission rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.close()

			result := s.app.Check()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else if result.Valid {
				fmt.Fprintln(out, s.app.T("validation.ok"))
			} else {
				writeIssues(out, s.app.T("validation.summary", len(result.Issues)), result.Issues)
			}
			if !result.Valid {
				return ErrInvalidForm
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// NewPrintCommand writes the print document.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Write the print document (HTML) for a complete form",
		Long: `Write the print document into the export directory. The form is
checked first; an incomplete form is reported and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []sigform.Option
			if stdout {
				extra = append(extra, sigform.WithPrintSink(export.WriterSink{W: cmd.OutOrStdout()}))
			}
			s, err := openSession(cmd, rootOpts, extra...)
			if err != nil {
				return err
			}
			defer s.close()

			location, err := s.app.Print(contextOf(cmd))
			if invalid, ok := sigform.IsInvalid(err); ok {
				writeIssues(cmd.ErrOrStderr(), s.app.T("validation.blocked"), invalid.Issues)
				return ErrInvalidForm
			}
			if err != nil {
				return err
			}
			if !stdout {
				fmt.Fprintln(cmd.OutOrStdout(), s.app.T("tui.print.ok", location))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the document to stdout")
	return cmd
}

// NewExportCommand writes the JSON snapshot.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the draft as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts, sigform.WithExportDir(dir))
			if err != nil {
				return err
			}
			defer s.close()

			path, err := s.app.ExportSnapshot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.app.T("tui.export.ok", path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output-dir", "o", "", "directory for the snapshot (default from config)")
	return cmd
}

// NewImportCommand replaces the draft with a snapshot file.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Replace the draft with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.app.ImportFile(args[0]); err != nil {
				s.logger.Warn("import failed", slog.String("path", args[0]), slog.Any("error", err))
				return fmt.Errorf("%s: %w", s.app.T("tui.import.failed"), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.app.T("tui.import.ok"))
			return nil
		},
	}
	return cmd
}

// NewClearCommand discards the draft.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the draft and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := contextOf(cmd)
			if !yes {
				driver := rootOpts.driver
				if driver == nil {
					driver = tui.NewSurveyDriver(cmd.OutOrStdout())
				}
				ok, err := driver.Confirm(ctx, tui.ConfirmConfig{
					Message: s.app.T("tui.confirm.clear"),
				})
				if err != nil || !ok {
					if errors.Is(err, tui.ErrAborted) {
						return nil
					}
					return err
				}
			}
			return s.app.Clear(ctx)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

// NewShowCommand prints the draft with a registered renderer.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var renderer string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.close()

			out, err := s.app.Render(contextOf(cmd), renderer)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&renderer, "renderer", "r", text.Name, "renderer to use (text|document)")
	return cmd
}

func writeIssues(w io.Writer, header string, issues []validation.Issue) {
	fmt.Fprintln(w, header)
	for i, issue := range issues {
		fmt.Fprintf(w, "%d. %s\n", i+1, issue.Message)
	}
}
