package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-l2d/engine/loader"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models found under the resource path",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := discoverModels(cfg.ResourcePath)
		if err != nil {
			return err
		}
		return printModels(cmd.OutOrStdout(), loader.NewLoader(loader.BackendTypeModel3), cfg.ResourcePath, names)
	},
}

// discoverModels returns the sorted names of the directories under resourcePath that hold
// a manifest named after the directory.
func discoverModels(resourcePath string) ([]string, error) {
	entries, err := os.ReadDir(resourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource path: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(loader.ManifestPath(resourcePath, e.Name())); err == nil {
			names = append(names, e.Name())
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat manifest for %s: %w", e.Name(), err)
		}
	}
	sort.Strings(names)
	return names, nil
}

// printModels writes one line per model: its key, name and motion groups. Models that fail
// to load are listed with the error.
func printModels(out io.Writer, l loader.Loader, resourcePath string, names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintf(out, "no models under %s\n", resourcePath)
		return err
	}
	for i, name := range names {
		key := " "
		if i < 9 {
			key = fmt.Sprint(i + 1)
		}
		m, err := l.Load(loader.ManifestPath(resourcePath, name))
		if err != nil {
			if _, werr := fmt.Fprintf(out, "%s  %s  (error: %v)\n", key, name, err); werr != nil {
				return werr
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "%s  %s  [%s]\n", key, name, strings.Join(m.MotionGroups(), ", ")); err != nil {
			return err
		}
	}
	return nil
}
