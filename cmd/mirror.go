package cmd

import (
	"context"
	"fmt"

	"TrackDrop/config"
	"TrackDrop/model"
	"TrackDrop/repository"
	"TrackDrop/storage"

	"github.com/spf13/cobra"
)

var (
	mirrorForce bool
	mirrorStats bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy stored payloads to the MinIO bucket",
	Long:  `Upload every audio and cover file referenced by the metadata file to the configured MinIO bucket. Objects already present are skipped unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if !cfg.MirrorEnabled() {
			return fmt.Errorf("MINIO_ENDPOINT is not set")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		mirror, err := storage.NewMinioMirror(ctx, cfg)
		if err != nil {
			return err
		}

		if mirrorStats {
			for _, prefix := range []string{"audio/", "covers/"} {
				stats, err := mirror.Stats(ctx, prefix)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d objects, %s\n", prefix, stats.TotalObjects, storage.FormatSize(stats.TotalSize))
			}
			return nil
		}

		tracks, err := repository.NewJSONFilePersister(cfg.MetadataFile).Load()
		if err != nil {
			return err
		}

		copied, skipped, err := backfill(ctx, cfg, mirror, tracks, mirrorForce)
		fmt.Fprintf(cmd.OutOrStdout(), "mirrored %d payloads, skipped %d\n", copied, skipped)
		return err
	},
}

// backfill mirrors every payload referenced by tracks and stops at the first failure.
func backfill(ctx context.Context, cfg *config.Config, mirror storage.Mirror, tracks []model.Track, force bool) (copied, skipped int, err error) {
	payloads := storage.NewLocalStore(cfg.UploadDir, cfg.CoverDir)

	type payload struct {
		kind storage.Kind
		name string
	}
	var todo []payload
	for _, t := range tracks {
		todo = append(todo, payload{storage.KindAudio, t.AudioFile})
		if t.HasCover() {
			todo = append(todo, payload{storage.KindCover, *t.CoverFile})
		}
	}

	for _, p := range todo {
		if !force {
			exists, err := mirror.Exists(ctx, p.kind, p.name)
			if err != nil {
				return copied, skipped, fmt.Errorf("failed to check %s: %w", p.name, err)
			}
			if exists {
				skipped++
				continue
			}
		}

		path, err := payloads.Path(p.kind, p.name)
		if err != nil {
			return copied, skipped, err
		}
		if err := mirror.Mirror(ctx, p.kind, p.name, path); err != nil {
			return copied, skipped, err
		}
		copied++
	}
	return copied, skipped, nil
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
	mirrorCmd.Flags().BoolVarP(&mirrorForce, "force", "F", false, "re-upload objects that already exist")
	mirrorCmd.Flags().BoolVarP(&mirrorStats, "stats", "s", false, "print bucket statistics instead of mirroring")
}
