package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GintGld/showreel/internal/lib/slug"
)

func newSlugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title>...",
		Short: "Print the slug a title resolves to",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := slug.Make(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), s)
		},
	}
}

func newSlugsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slugs",
		Short: "List video slugs and report collisions",
		Long: `List every video with its slug. Titles sharing a slug are
reported at the end, only the first of them is reachable by url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Stop()

			videos, err := storage.AllVideos(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, v := range videos {
				fmt.Fprintf(out, "%-40s %s\n", slug.Make(v.Title), v.Title)
			}

			collisions := slug.Collisions(videos)
			if len(collisions) == 0 {
				fmt.Fprintf(out, "\nTotal: %d videos, no collisions\n", len(videos))
				return nil
			}

			keys := make([]string, 0, len(collisions))
			for s := range collisions {
				keys = append(keys, s)
			}
			sort.Strings(keys)

			fmt.Fprintln(out, "\nCollisions:")
			for _, s := range keys {
				fmt.Fprintf(out, "  %s: %s\n", s, strings.Join(collisions[s], ", "))
			}

			return fmt.Errorf("%d slug collisions", len(collisions))
		},
	}
}
