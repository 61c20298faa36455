package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"folio.dev/internal/models"
	"folio.dev/internal/palette"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <url>...",
	Short: "Print the scrim color and gradient of one or more images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	sampler := palette.New(palette.Options{
		Client:      &http.Client{},
		Timeout:     cfg.Palette.Timeout,
		MaxBytes:    cfg.Palette.MaxBytes,
		Concurrency: cfg.Palette.Concurrency,
		Logger:      logger.Named("palette"),
	})

	projects := make([]models.Project, len(args))
	for i, url := range args {
		projects[i] = models.Project{ID: int64(i), ImageURL: url}
	}
	colors := sampler.SampleAll(cmd.Context(), projects)

	out := cmd.OutOrStdout()
	for i, url := range args {
		c := colors[int64(i)]
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", url, c, c.Hex(), palette.Scrim(c).CSS())
	}
	return nil
}
