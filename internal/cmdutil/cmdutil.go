/*
Copyright © 2026 the skirt authors.
This file is part of skirt.

skirt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

skirt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with skirt.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cmdutil holds the cobra/viper plumbing shared by the run and
// fit command-line entry points (§6 "Command-line surface"): flag
// registration, configuration-file loading, and the file-pattern
// expansion both entry points need.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the bound configuration for one command-line entry point.
type Cfg struct {
	*viper.Viper
	Root *cobra.Command
}

// NewCfg builds root with its persistent flags bound into a fresh
// viper.Viper, and sets a PersistentPreRunE that loads a config file
// named by --config, if one was given.
func NewCfg(use, short, long string) *Cfg {
	cfg := &Cfg{Viper: viper.New()}
	cfg.Root = &cobra.Command{
		Use:               use,
		Short:             short,
		Long:              long,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.loadConfigFile()
		},
	}
	return cfg
}

func (cfg *Cfg) loadConfigFile() error {
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("cmdutil: reading configuration file %s: %w", path, err)
	}
	return nil
}

// bindString registers a string flag on fs under name and binds it into
// cfg's viper instance.
func (cfg *Cfg) bindString(fs *pflag.FlagSet, name, shorthand, defaultVal, usage string) {
	fs.StringP(name, shorthand, defaultVal, usage)
	cfg.BindPFlag(name, fs.Lookup(name))
}

func (cfg *Cfg) bindInt(fs *pflag.FlagSet, name, shorthand string, defaultVal int, usage string) {
	fs.IntP(name, shorthand, defaultVal, usage)
	cfg.BindPFlag(name, fs.Lookup(name))
}

func (cfg *Cfg) bindBool(fs *pflag.FlagSet, name, shorthand string, defaultVal bool, usage string) {
	fs.BoolP(name, shorthand, defaultVal, usage)
	cfg.BindPFlag(name, fs.Lookup(name))
}

// BindRunFlags registers the run command's flags on cmd (§6 "run [-b]
// [-s <simulations>] [-t <threads>] [-k] [-i <input-dir>] [-o
// <output-dir>] [-r] <file-pattern>+").
func (cfg *Cfg) BindRunFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	cfg.bindString(fs, "config", "", "", "configuration file location")
	cfg.bindBool(fs, "brief", "b", false, "log only warnings and errors, not per-generation/per-run progress")
	cfg.bindInt(fs, "simulations", "s", 1, "number of simulations to run concurrently")
	cfg.bindInt(fs, "threads", "t", 1, "number of photon-packet worker threads per simulation")
	cfg.bindBool(fs, "relative", "k", false, "resolve input/output paths relative to each input file instead of the current directory")
	cfg.bindString(fs, "input", "i", "", "input directory")
	cfg.bindString(fs, "output", "o", "", "output directory")
	cfg.bindBool(fs, "recurse", "r", false, "recurse through directories matching the file pattern")
}

// BindFitFlags registers the fit command's flags on cmd (§6 "fit [-k]
// [-i <dir>] [-o <dir>] [-s <sims>] [-t <threads>] <fit-file>+").
func (cfg *Cfg) BindFitFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	cfg.bindString(fs, "config", "", "", "configuration file location")
	cfg.bindBool(fs, "relative", "k", false, "resolve input/output paths relative to each fit file instead of the current directory")
	cfg.bindString(fs, "input", "i", "", "input directory")
	cfg.bindString(fs, "output", "o", "", "output directory")
	cfg.bindInt(fs, "simulations", "s", 1, "number of fit-scenario evaluations to run concurrently")
	cfg.bindInt(fs, "threads", "t", 1, "number of photon-packet worker threads per evaluation")
}

// ExpandFilePatterns resolves every glob pattern in patterns against dir
// (the empty string means the current directory). When recurse is true it
// also walks every directory under dir for files whose base name matches
// the pattern's base name. It returns the de-duplicated, sorted list of
// matched paths.
func ExpandFilePatterns(dir string, patterns []string, recurse bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		full := pattern
		if dir != "" && !filepath.IsAbs(pattern) {
			full = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("cmdutil: bad file pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if err := addMatch(m, seen, &out); err != nil {
				return nil, err
			}
		}
		if recurse {
			if err := recurseMatches(dir, pattern, seen, &out); err != nil {
				return nil, err
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func addMatch(path string, seen map[string]bool, out *[]string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cmdutil: %s: %w", path, err)
	}
	if info.IsDir() {
		return nil
	}
	if !seen[path] {
		seen[path] = true
		*out = append(*out, path)
	}
	return nil
}

// recurseMatches walks every directory under root looking for files
// whose base name matches pattern's base name (§6 "-r recurse through
// directories matching the pattern").
func recurseMatches(root, pattern string, seen map[string]bool, out *[]string) error {
	if root == "" {
		root = "."
	}
	base := filepath.Base(pattern)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ok, err := filepath.Match(base, filepath.Base(path))
		if err != nil {
			return err
		}
		if ok && !seen[path] {
			seen[path] = true
			*out = append(*out, path)
		}
		return nil
	})
}

// ResolveDir returns dir if non-empty, or the directory containing
// inputFile when relative is true, or "." otherwise (§6 "-k paths
// relative to each input file").
func ResolveDir(dir, inputFile string, relative bool) string {
	if dir != "" {
		return dir
	}
	if relative {
		return filepath.Dir(inputFile)
	}
	return "."
}

// OutputPrefix derives the output-file prefix from an input file's base
// name, stripping its extension (§6 "<prefix>_<instrument>_...").
func OutputPrefix(inputFile string) string {
	base := filepath.Base(inputFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
