package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hengadev/typetext"
)

// SaveConfig writes cfg to path as YAML.
func SaveConfig(cfg typetext.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

func initCommand(args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("init", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "overwrite an existing settings file")
	path := fs.StringP("output", "o", typetext.DefaultConfigFileNames[0], "settings file to create")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force {
		if _, err := os.Stat(*path); err == nil {
			return errors.Newf("settings file %s already exists, use --force to overwrite", *path)
		}
	}
	if err := SaveConfig(typetext.DefaultConfig(), *path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Settings file created at %s\n", *path)
	return nil
}
