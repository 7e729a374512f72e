// Package cli implements the buildo command line interface with cobra.
//
// Commands reach the core only through driving ports held in package-level
// variables. cmd/buildo installs a Bootstrap function that builds them from
// the resolved configuration the first time a command needs them; tests
// assign mocks directly.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driving"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Flags.
var (
	configPath string
	verbose    bool
)

// Services are the ports commands operate on.
type Services struct {
	Sync    driving.PermitSync
	History driving.HistoryService
	Config  driven.ConfigStore

	// AfterSync runs once a sync command finishes, successful or not.
	// Optional; used to flush metrics.
	AfterSync func() error
}

// Options are the global flag values handed to Bootstrap.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Bootstrap builds the services from the global flags. It is called at most
// once per process, by the first command that needs a service.
// The returned cleanup is run by Shutdown.
var Bootstrap func(opts Options) (*Services, func(), error)

var (
	permitSync  driving.PermitSync
	history     driving.HistoryService
	configStore driven.ConfigStore
	afterSync   func() error

	bootstrapped bool
	cleanup      func()
)

// errNotConfigured is returned when a command runs without its service.
var errNotConfigured = errors.New("service not configured")

var rootCmd = &cobra.Command{
	Use:   "buildo",
	Short: "Sync building permit exports and track what changed",
	Long: `buildo ingests bulk building permit exports into a record store.

Every run classifies each permit revision as new, updated or unchanged,
records field-level changes, and keeps a summary of the run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.buildo/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and debug output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	permitSync = s.Sync
	history = s.History
	configStore = s.Config
	afterSync = s.AfterSync
	bootstrapped = true
}

// Shutdown releases whatever Bootstrap acquired.
func Shutdown() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// ensureServices runs Bootstrap once if no services are installed.
func ensureServices() error {
	if bootstrapped || Bootstrap == nil {
		return nil
	}
	s, done, err := Bootstrap(Options{ConfigPath: configPath, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(s)
	cleanup = done
	return nil
}
