// Command boardcheck logs into Asana with a real browser and checks that
// tasks on project boards carry the tags a fixture expects.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/entrhq/boardcheck/pkg/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

// Exit codes
const (
	exitPassed = 0
	exitFailed = 1
	exitFatal  = 2
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("cli")
	if err != nil {
		debugLog.Warnf("Failed to initialize cli logger, using stderr fallback: %v", err)
	}
}

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func fatal(err error) error {
	return &exitError{code: exitFatal, err: err}
}

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitPassed
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFatal
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "boardcheck",
		Short: "Validate Asana board tags against test case fixtures",
		Long: `boardcheck signs into Asana, opens each project named by the test case
fixture, reads its list view and checks that every expected task carries the
expected tags (case and order insensitive).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags Flags
	flags.Register(rootCmd)

	rootCmd.AddCommand(newRunCmd(&flags))
	rootCmd.AddCommand(newValidateCmd(&flags))
	rootCmd.AddCommand(newSchemaCmd())
	return rootCmd
}

func main() {
	err := newRootCmd().Execute()
	code := exitCode(err)

	var ee *exitError
	if err != nil && (!errors.As(err, &ee) || ee.err != nil) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	debugLog.Infof("Exiting with status %d", code)
	_ = debugLog.Close()
	os.Exit(code)
}
