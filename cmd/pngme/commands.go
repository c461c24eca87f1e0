package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/pngme/internal/config"
	"github.com/danmuck/pngme/internal/logging"
	"github.com/danmuck/pngme/internal/message"
	"github.com/danmuck/pngme/internal/tools"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	cliName        = "pngme"
	cliDescription = "hide messages in PNG files"

	envConfigPath = "PNGME_CONFIG"

	msgNotFound = "couldn't find a chunk with this type"
	msgNotUTF8  = "data in this chunk is not compatible with utf-8 encoding, most likely there is no encoded message here"
)

var errNoChunkType = errors.New("chunk type required: pass it as an argument or set default_chunk_type")

type globalFlags struct {
	ConfigFile string
	Format     string
	NoColor    bool
}

type app struct {
	flags    globalFlags
	cfg      config.Config
	svc      *message.Service
	newStore func(config.Config) tools.FileStore
}

func defaultStore(cfg config.Config) tools.FileStore {
	return tools.OSFileStore{Mode: cfg.FileMode}
}

func newRootCommand(newStore func(config.Config) tools.FileStore) *cobra.Command {
	a := &app{newStore: newStore}
	root := &cobra.Command{
		Use:               cliName,
		Short:             cliDescription,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.flags.ConfigFile, "config", "", "path to a TOML config file (env "+envConfigPath+")")
	root.PersistentFlags().StringVar(&a.flags.Format, "format", "", "print format: table | json | text")
	root.PersistentFlags().BoolVar(&a.flags.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.encodeCommand(),
		a.decodeCommand(),
		a.removeCommand(),
		a.printCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	path := a.flags.ConfigFile
	if path == "" {
		path = strings.TrimSpace(os.Getenv(envConfigPath))
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(a.flags.Format))
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = a.flags.NoColor
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	logging.ConfigureWith(cfg.Logging())
	if cfg.NoColor {
		color.NoColor = true
	}
	a.svc = message.NewService(a.newStore(cfg))
	log.Debug().Str("format", cfg.Format).Str("config", path).Msg("pngme.setup ready")
	return nil
}

func (a *app) encodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file> <chunk-type> <message> [output-file]",
		Short: "encode a message in a PNG file under a chunk of the given type",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := message.EncodeRequest{Path: args[0], ChunkType: args[1], Message: args[2]}
			if len(args) == 4 {
				req.OutputPath = args[3]
			}
			written, err := a.svc.Encode(cmd.Context(), req)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "new content written to file %s\n", written)
			return nil
		},
	}
}

func (a *app) decodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file> [chunk-type]",
		Short: "decode the message stored under a chunk of the given type",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := a.chunkTypeArg(args)
			if err != nil {
				return err
			}
			res, err := a.svc.Decode(cmd.Context(), args[0], typ)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case !res.Found:
				color.New(color.FgYellow).Fprintln(out, msgNotFound)
			case !res.UTF8:
				color.New(color.FgYellow).Fprintln(out, msgNotUTF8)
			default:
				fmt.Fprintln(out, res.Message)
			}
			return nil
		},
	}
}

func (a *app) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file> [chunk-type]",
		Short: "remove the first chunk of the given type",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := a.chunkTypeArg(args)
			if err != nil {
				return err
			}
			removed, err := a.svc.Remove(cmd.Context(), args[0], typ)
			if err != nil {
				return err
			}
			if !removed {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), msgNotFound)
				return nil
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func (a *app) printCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "display the chunks of a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, p)
		},
	}
}

// chunkTypeArg returns args[1], falling back to the configured default.
func (a *app) chunkTypeArg(args []string) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	if a.cfg.DefaultChunkType == "" {
		return "", errNoChunkType
	}
	return a.cfg.DefaultChunkType, nil
}
