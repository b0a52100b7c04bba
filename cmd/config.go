package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/config"
	"github.com/oscargus/objinv/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage objinv configuration",
	Long:  `Read and write objinv configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		tmpl := config.Template()
		if err := config.WriteFile(path, tmpl); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		format := cfg.Format
		if globalFlags.Format != "" {
			format = globalFlags.Format
		}

		switch format {
		case render.FormatJSON:
			type configOut struct {
				Format      string  `json:"default_format"`
				Timeout     string  `json:"timeout"`
				Concurrency int     `json:"concurrency"`
				Rate        float64 `json:"rate"`
				Threshold   int     `json:"threshold"`
				DBPath      string  `json:"db_path"`
				ConfigFile  string  `json:"config_file"`
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				Format:      cfg.Format,
				Timeout:     cfg.Timeout.String(),
				Concurrency: cfg.Concurrency,
				Rate:        cfg.Rate,
				Threshold:   cfg.Threshold,
				DBPath:      cfg.DBPath,
				ConfigFile:  src,
			})
		default:
			rows := [][]string{
				{"default_format", cfg.Format},
				{"timeout", cfg.Timeout.String()},
				{"concurrency", fmt.Sprintf("%d", cfg.Concurrency)},
				{"rate", fmt.Sprintf("%.1f req/s", cfg.Rate)},
				{"threshold", fmt.Sprintf("%d", cfg.Threshold)},
				{"db_path", cfg.DBPath},
				{"config_file", src},
			}
			printKVTable(rows)
			return nil
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		val := args[1]

		var f config.File
		existing, path, err := loadConfigFile()
		if err != nil {
			path = config.DefaultConfigFile
			f = config.Template()
		} else {
			f = *existing
		}

		switch key {
		case "default_format", "format":
			f.DefaultFormat = val
		case "timeout":
			f.Timeout = val
		case "concurrency":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("concurrency must be an integer")
			}
			f.Concurrency = n
		case "rate":
			r, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("rate must be a number")
			}
			f.Rate = r
		case "threshold":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("threshold must be an integer")
			}
			f.Threshold = n
		case "db_path":
			f.DBPath = val
		default:
			return fmt.Errorf("unknown config key: %q\n\nValid keys: default_format, timeout, concurrency, rate, threshold, db_path", key)
		}

		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s in %s\n", key, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// loadConfigFile reads config.json from cwd; used by configSetCmd.
func loadConfigFile() (*config.File, string, error) {
	path := config.DefaultConfigFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", err
	}
	return &f, path, nil
}

// printKVTable renders a two-column key/value table to stdout using aligned columns.
func printKVTable(rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Printf("  %s%s  %s\n", r[0], padding, r[1])
	}
}
