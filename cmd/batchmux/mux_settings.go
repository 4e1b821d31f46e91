package main

import (
	"github.com/spf13/cobra"

	"batchmux/internal/config"
	"batchmux/internal/muxer"
)

// settingsFlags are the per-run execution overrides shared by the preview
// and mux commands. Only flags the user actually set override the config.
type settingsFlags struct {
	destination      string
	overwrite        bool
	parallel         int
	abortOnErrors    bool
	addCRC           bool
	removeOldCRC     bool
	keepLog          bool
	useMkvpropedit   bool
	discardChapters  bool
	discardAttach    bool
	removeGlobalTags bool

	defaultAudioLang    string
	defaultSubtitleLang string
	keepAudioLangs      []string
	keepSubtitleLangs   []string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.destination, "destination", "", "Directory to write muxed output into")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Replace each source video with its muxed result")
	cmd.Flags().IntVar(&f.parallel, "parallel", 0, "Number of jobs to run at once")
	cmd.Flags().BoolVar(&f.abortOnErrors, "abort-on-errors", false, "Pause the run when a job fails")
	cmd.Flags().BoolVar(&f.addCRC, "add-crc", false, "Append the output CRC-32 to the file name")
	cmd.Flags().BoolVar(&f.removeOldCRC, "remove-old-crc", false, "Strip an existing CRC tag from the output name")
	cmd.Flags().BoolVar(&f.keepLog, "keep-log", false, "Keep the tool log next to each output file")
	cmd.Flags().BoolVar(&f.useMkvpropedit, "use-mkvpropedit", false, "Edit metadata in place when no remux is needed")
	cmd.Flags().BoolVar(&f.discardChapters, "discard-chapters", false, "Drop chapters present in the source video")
	cmd.Flags().BoolVar(&f.discardAttach, "discard-attachments", false, "Drop attachments present in the source video")
	cmd.Flags().BoolVar(&f.removeGlobalTags, "remove-global-tags", false, "Drop global tags present in the source video")
	cmd.Flags().StringVar(&f.defaultAudioLang, "default-audio-language", "", "Make the first audio track of this language the default")
	cmd.Flags().StringVar(&f.defaultSubtitleLang, "default-subtitle-language", "", "Make the first subtitle track of this language the default")
	cmd.Flags().StringSliceVar(&f.keepAudioLangs, "keep-audio-languages", nil, "Keep only internal audio tracks of these languages")
	cmd.Flags().StringSliceVar(&f.keepSubtitleLangs, "keep-subtitle-languages", nil, "Keep only internal subtitle tracks of these languages")
}

func (f *settingsFlags) apply(cmd *cobra.Command, cfg *config.Config) muxer.Settings {
	settings := muxer.FromConfig(cfg)
	set := cmd.Flags().Changed

	if set("destination") {
		settings.DestinationDir = f.destination
	}
	if set("overwrite") {
		settings.OverwriteSource = f.overwrite
	}
	if set("parallel") {
		settings.MaxParallelJobs = f.parallel
	}
	if set("abort-on-errors") {
		settings.AbortOnErrors = f.abortOnErrors
	}
	if set("add-crc") {
		settings.AddCRC = f.addCRC
	}
	if set("remove-old-crc") {
		settings.RemoveOldCRC = f.removeOldCRC
	}
	if set("keep-log") {
		settings.KeepLogFile = f.keepLog
	}
	if set("use-mkvpropedit") {
		settings.UseMkvpropedit = f.useMkvpropedit
	}
	if set("discard-chapters") {
		settings.DiscardOldChapters = f.discardChapters
	}
	if set("discard-attachments") {
		settings.DiscardOldAttachments = f.discardAttach
	}
	if set("remove-global-tags") {
		settings.RemoveGlobalTags = f.removeGlobalTags
	}
	if set("default-audio-language") {
		settings.DefaultAudioLanguage = f.defaultAudioLang
	}
	if set("default-subtitle-language") {
		settings.DefaultSubtitleLanguage = f.defaultSubtitleLang
	}
	if set("keep-audio-languages") {
		settings.KeepAudioLanguages = f.keepAudioLangs
	}
	if set("keep-subtitle-languages") {
		settings.KeepSubtitleLanguages = f.keepSubtitleLangs
	}
	return settings
}
