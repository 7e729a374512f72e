package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration values",
	Long: `Reads and writes keys of the TOML configuration file in dot notation,
for example "sync.batch_size" or "storage.driver".`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every configured key",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value. Integers and true/false are stored typed;
anything else is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := requireConfig(); err != nil {
		return err
	}
	cmd.Printf("# %s\n", configStore.Path())
	for _, key := range configStore.Keys() {
		val, _ := configStore.Get(key)
		cmd.Printf("%s = %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := requireConfig(); err != nil {
		return err
	}
	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("config key %q is not set", args[0])
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireConfig(); err != nil {
		return err
	}
	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, raw)
	return nil
}

func requireConfig() error {
	if err := ensureServices(); err != nil {
		return err
	}
	if configStore == nil {
		return fmt.Errorf("config: %w", errNotConfigured)
	}
	return nil
}

// parseConfigValue types a command line value the way TOML would.
func parseConfigValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	return raw
}
