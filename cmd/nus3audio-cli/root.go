package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/nus3audio-editor/internal/config"
	"github.com/ytget/nus3audio-editor/internal/convert"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

// Configuration keys. Each is also read from NUS3AUDIO_<KEY> with dashes
// turned into underscores.
const (
	keyVGAudioCli      = "vgaudio-cli"
	keyRuntime         = "runtime"
	keyVgmstream       = "vgmstream"
	keyPreferVgmstream = "prefer-vgmstream"
	keyTimeout         = "timeout"
	keyLogLevel        = "log-level"

	envPrefix = "NUS3AUDIO"
)

var errNoSound = errors.New("no sound with that name")

// app holds what every subcommand shares
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "nus3audio-cli",
		Short:         "Inspect, extract and rebuild nus3audio banks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String(keyVGAudioCli, convert.DefaultVGAudioCliPath(), "path to VGAudioCli")
	flags.String(keyRuntime, "", "runtime used to launch VGAudioCli (detected when empty)")
	flags.String(keyVgmstream, "", "path to vgmstream-cli (detected when empty)")
	flags.Bool(keyPreferVgmstream, true, "decode with vgmstream when it is available")
	flags.Duration(keyTimeout, convert.DefaultToolTimeout, "timeout for each external tool run")
	flags.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	for _, key := range []string{keyVGAudioCli, keyRuntime, keyVgmstream, keyPreferVgmstream, keyTimeout, keyLogLevel} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newListCmd(),
		newExtractCmd(),
		newPackCmd(),
		newDecodeCmd(a),
		newReplaceCmd(a),
	)
	return root
}

func (a *app) init(cfgFile string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLevel(a.v.GetString(keyLogLevel)),
	})))
	slog.Debug("configuration loaded", "file", a.v.ConfigFileUsed())
	return nil
}

// tools builds the converter snapshot. Empty runtime and vgmstream paths
// fall back to whatever is found on the search path.
func (a *app) tools() convert.Tools {
	t := convert.Tools{
		VGAudioCliPath:  a.v.GetString(keyVGAudioCli),
		RuntimePath:     a.v.GetString(keyRuntime),
		VgmstreamPath:   a.v.GetString(keyVgmstream),
		PreferVgmstream: a.v.GetBool(keyPreferVgmstream),
		Timeout:         a.v.GetDuration(keyTimeout),
	}
	if t.RuntimePath == "" {
		t.RuntimePath = convert.DetectRuntime(nil)
	}
	if t.VgmstreamPath == "" {
		t.VgmstreamPath = convert.DetectVgmstream(nil)
	}
	if t.Timeout <= 0 {
		t.Timeout = time.Duration(config.DefaultToolTimeout) * time.Second
	}
	return t
}

func (a *app) converter() *convert.Service {
	return convert.NewService(a.tools, nil)
}

// findSound returns the index of the first payload called name
func findSound(f *nus3.File, name string) (int, error) {
	for i, af := range f.Files {
		if af.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", errNoSound, name)
}
