package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"batchmux/internal/catalog"
	"batchmux/internal/config"
	"batchmux/internal/inspect"
	"batchmux/internal/mediakit"
	"batchmux/internal/scan"
	"batchmux/internal/services"
)

// sourceFlags name the directories a command pulls media from. The video
// directory anchors everything; external directories are optional.
type sourceFlags struct {
	videoDir      string
	audioDir      string
	subtitleDir   string
	chapterDir    string
	attachmentDir string
	recursive     bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.videoDir, "videos", "", "Directory containing the video files")
	cmd.Flags().StringVar(&f.audioDir, "audio", "", "Directory containing external audio files")
	cmd.Flags().StringVar(&f.subtitleDir, "subtitles", "", "Directory containing external subtitle files")
	cmd.Flags().StringVar(&f.chapterDir, "chapters", "", "Directory containing chapter files")
	cmd.Flags().StringVar(&f.attachmentDir, "attachments", "", "Directory containing attachment files")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Scan directories recursively")
}

// buildCatalog scans and inspects every requested directory and loads the
// results into a catalog store, which pairs external files with videos as
// entries arrive. Files that fail inspection are logged and skipped.
func buildCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger, flags sourceFlags) (*catalog.Store, error) {
	if flags.videoDir == "" {
		return nil, services.Wrap(services.ErrValidation, "session", "scan", "--videos directory is required", nil)
	}

	inspector := inspect.NewClient(cfg.Tools, logger)
	store := catalog.NewStore()

	load := func(dir string, extensions []string, target inspect.Target) error {
		if dir == "" {
			return nil
		}
		paths, err := scan.Files(scan.Request{Folder: dir, Recursive: flags.recursive, Extensions: extensions})
		if err != nil {
			return err
		}
		batch, err := inspector.InspectBatch(ctx, paths, target)
		if err != nil {
			return err
		}
		for path, failure := range batch.Failed {
			logger.Warn("file skipped", "path", path, "error", failure)
		}
		store.AddVideos(batch.Videos...)
		store.AddExternals(batch.Externals...)
		return nil
	}

	if err := load(flags.videoDir, cfg.Defaults.VideoExtensions, inspect.TargetVideo); err != nil {
		return nil, err
	}
	if err := load(flags.audioDir, cfg.Defaults.AudioExtensions, inspect.TargetAudio); err != nil {
		return nil, err
	}
	if err := load(flags.subtitleDir, cfg.Defaults.SubtitleExtensions, inspect.TargetSubtitle); err != nil {
		return nil, err
	}
	if err := load(flags.chapterDir, cfg.Defaults.ChapterExtensions, inspect.TargetChapter); err != nil {
		return nil, err
	}
	if err := load(flags.attachmentDir, nil, inspect.TargetAttachment); err != nil {
		return nil, err
	}
	return store, nil
}

func videoName(videos []mediakit.VideoFile, id string) string {
	for _, v := range videos {
		if v.ID == id {
			return v.Name
		}
	}
	return id
}
