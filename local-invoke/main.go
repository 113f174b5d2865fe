// Command local-invoke runs the thumbnail functions from a shell: the
// transformer against local files, or either Lambda handler against real AWS
// resources using the same environment the functions read.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/urfave/cli/v2"

	"github.com/sakarghimire/thumbnail-service/config"
	"github.com/sakarghimire/thumbnail-service/handlers"
	"github.com/sakarghimire/thumbnail-service/logger"
	"github.com/sakarghimire/thumbnail-service/thumbnail"
)

func main() {
	app := &cli.App{
		Name:  "local-invoke",
		Usage: "exercise the thumbnail service outside Lambda",
		Commands: []*cli.Command{
			thumbnailCommand(),
			deriveKeyCommand(),
			eventCommand(),
			apiCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("local-invoke failed")
	}
}

func thumbnailCommand() *cli.Command {
	return &cli.Command{
		Name:  "thumbnail",
		Usage: "write a square PNG thumbnail of a local image",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "source image path"},
			&cli.StringFlag{Name: "out", Usage: "output path (default: derived from --in)"},
			&cli.IntFlag{Name: "size", Value: 128, Usage: "thumbnail edge in pixels"},
		},
		Action: func(c *cli.Context) error {
			if c.Int("size") <= 0 {
				return fmt.Errorf("--size must be positive")
			}
			data, err := os.ReadFile(c.String("in"))
			if err != nil {
				return err
			}

			thumb, err := thumbnail.NewTransformer(c.Int("size")).Thumbnail(data)
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = defaultOutPath(c.String("in"))
			}
			if err := os.WriteFile(out, thumb, 0o644); err != nil {
				return err
			}
			logger.Log.Info().Str("out", out).Int("bytes", len(thumb)).
				Str("estimate", thumbnail.ApproxReducedSize(int64(len(data)))).Msg("thumbnail written")
			return nil
		},
	}
}

// defaultOutPath places the thumbnail next to the source, replacing only the
// file name's own extension: "../pics/cat" becomes "../pics/cat_thumbnail.png".
func defaultOutPath(in string) string {
	base := filepath.Base(in)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(in), name+thumbnail.Suffix)
}

func deriveKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "derive-key",
		Usage:     "print the thumbnail key for each object key",
		ArgsUsage: "KEY...",
		Action: func(c *cli.Context) error {
			for _, key := range c.Args().Slice() {
				fmt.Fprintf(c.App.Writer, "%s\t%s\n", key, thumbnail.DeriveKey(key))
			}
			return nil
		},
	}
}

func eventCommand() *cli.Command {
	return &cli.Command{
		Name:  "event",
		Usage: "replay an S3 notification JSON file through the thumbnail generator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Required: true, Usage: "path to an S3 event JSON document"},
		},
		Action: func(c *cli.Context) error {
			raw, err := os.ReadFile(c.String("file"))
			if err != nil {
				return err
			}
			var event events.S3Event
			if err := json.Unmarshal(raw, &event); err != nil {
				return fmt.Errorf("parse %s: %w", c.String("file"), err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.SetLevel(cfg.LogLevel)

			h, err := handlers.NewEventHandlerFromConfig(cfg)
			if err != nil {
				return err
			}
			resp, err := h.Handle(context.Background(), event)
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func apiCommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "call the record API handler (list, get or delete)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "method", Value: "GET", Usage: "GET or DELETE"},
			&cli.StringFlag{Name: "id", Usage: "record id; omit with GET to list"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.SetLevel(cfg.LogLevel)

			api, err := handlers.NewAPIHandlerFromConfig(cfg)
			if err != nil {
				return err
			}

			req := events.APIGatewayProxyRequest{HTTPMethod: c.String("method")}
			if id := c.String("id"); id != "" {
				req.PathParameters = map[string]string{"id": id}
			}
			resp, err := api.Route(context.Background(), req)
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
