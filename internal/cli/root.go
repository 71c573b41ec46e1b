// Package cli implements the savedobjects command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mesh-intelligence/savedobjects/internal/logging"
	"github.com/mesh-intelligence/savedobjects/internal/paths"
	"github.com/mesh-intelligence/savedobjects/internal/tracing"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	namespace string
	logLevel  string
	traceFile string
	jsonMode  bool
}

// app is the state shared by one invocation of the root command.
type app struct {
	flags    rootFlags
	settings settings
	logger   zerolog.Logger
	tracer   *sdktrace.TracerProvider
}

// NewRootCmd creates the top-level "savedobjects" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "savedobjects",
		Short: "Manage saved objects in a local store",
		Long: "savedobjects creates, reads, searches and shares saved objects\n" +
			"across namespaces and workspaces, backed by SQLite and a JSONL snapshot.",
		Version:            Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.preRun,
		PersistentPostRunE: a.postRun,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.StringVarP(&a.flags.namespace, "namespace", "n", "", "namespace to operate in (default: config namespace, else the default namespace)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.traceFile, "trace-file", "", "write OpenTelemetry spans as JSON to this file")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newCreateCmd())
	root.AddCommand(a.newGetCmd())
	root.AddCommand(a.newUpdateCmd())
	root.AddCommand(a.newDeleteCmd())
	root.AddCommand(a.newFindCmd())
	root.AddCommand(a.newImportCmd())
	root.AddCommand(a.newCheckConflictsCmd())
	root.AddCommand(a.newNamespacesCmd())
	root.AddCommand(a.newWorkspacesCmd())
	root.AddCommand(a.newServeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error onto an exit code. Storage and environment
// failures are system errors; everything the caller can fix is a user error.
func exitCode(err error) int {
	var e *types.Error
	if errors.As(err, &e) {
		if e.Kind == types.KindUnavailable {
			return exitSysError
		}
		return exitUserError
	}
	var sysErr *systemError
	if errors.As(err, &sysErr) {
		return exitSysError
	}
	return exitUserError
}

// systemError marks failures outside the caller's control.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return &systemError{err: fmt.Errorf(format, args...)}
}

// preRun loads configuration, builds the logger and installs the tracer.
func (a *app) preRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErrorf("resolve config dir: %w", err)
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		s.LogLevel = a.flags.logLevel
	}
	if a.flags.namespace != "" {
		s.Namespace = a.flags.namespace
	}
	s.configDir = configDir
	a.settings = s
	a.logger = logging.NewConsole(cmd.ErrOrStderr(), s.LogLevel)

	if a.flags.traceFile != "" {
		tp, err := tracing.NewFileProvider(a.flags.traceFile)
		if err != nil {
			return sysErrorf("%w", err)
		}
		a.tracer = tp
		cmd.SetContext(tracing.SetTracer(cmd.Context(), tp.Tracer("savedobjects")))
	}
	return nil
}

// postRun flushes spans.
func (a *app) postRun(cmd *cobra.Command, args []string) error {
	if a.tracer == nil {
		return nil
	}
	return a.tracer.Shutdown(context.Background())
}
