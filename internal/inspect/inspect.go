package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"batchmux/internal/config"
	"batchmux/internal/mediakit"
	"batchmux/internal/services"
)

// commandContext is swapped out by tests to fake tool invocations.
var commandContext = exec.CommandContext

// Client runs the identification tools against media files.
type Client struct {
	mkvmerge  string
	mediainfo string
	logger    *slog.Logger
}

// NewClient builds a client from the configured tool names. Empty names
// fall back to looking the default binary up on PATH.
func NewClient(tools config.Tools, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	mkvmerge := strings.TrimSpace(tools.Mkvmerge)
	if mkvmerge == "" {
		mkvmerge = "mkvmerge"
	}
	mediainfo := strings.TrimSpace(tools.Mediainfo)
	if mediainfo == "" {
		mediainfo = "mediainfo"
	}
	return &Client{mkvmerge: mkvmerge, mediainfo: mediainfo, logger: logger}
}

// Video inspects a primary container and returns a populated VideoFile.
// mkvmerge supplies the track layout and duration; mediainfo supplements
// frame rate and per-track audio bitrates, which it reports more accurately
// for VBR streams.
func (c *Client) Video(ctx context.Context, path string) (mediakit.VideoFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return mediakit.VideoFile{}, services.Wrap(services.ErrValidation, "inspect", "video", path, err)
	}

	video := mediakit.VideoFile{
		ID:     mediakit.NewID("video"),
		Name:   filepath.Base(path),
		Path:   path,
		Size:   info.Size(),
		Status: mediakit.StatusPending,
	}

	merge, mergeErr := c.identify(ctx, path)
	report, infoErr := c.report(ctx, path)
	if mergeErr != nil && infoErr != nil {
		return mediakit.VideoFile{}, services.Wrap(services.ErrExternalTool, "inspect", "video", path, mergeErr)
	}

	if mergeErr == nil {
		video.Duration = merge.duration()
		video.Tracks = merge.tracks()
	}
	if infoErr == nil {
		if video.Duration == "" {
			video.Duration = report.duration()
		}
		video.FPS = report.videoFPS()
		if video.Tracks == nil {
			video.Tracks = report.tracks()
		} else {
			supplementAudioBitrates(video.Tracks, report.tracks())
		}
	} else {
		c.logger.Debug("mediainfo unavailable for video", "path", path, "error", infoErr)
	}
	return video, nil
}

// External inspects a standalone file of the given kind. Chapter and
// attachment files carry no stream metadata worth probing, so only size and
// name are filled in for them.
func (c *Client) External(ctx context.Context, path string, kind mediakit.FileKind) (mediakit.ExternalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return mediakit.ExternalFile{}, services.Wrap(services.ErrValidation, "inspect", "external", path, err)
	}

	file := mediakit.ExternalFile{
		ID:   mediakit.NewID(string(kind)),
		Name: filepath.Base(path),
		Path: path,
		Kind: kind,
		Size: info.Size(),
	}
	if kind != mediakit.FileAudio && kind != mediakit.FileSubtitle {
		return file, nil
	}

	trackKind := mediakit.TrackAudio
	if kind == mediakit.FileSubtitle {
		trackKind = mediakit.TrackSubtitle
	}

	merge, mergeErr := c.identify(ctx, path)
	report, infoErr := c.report(ctx, path)

	if infoErr == nil {
		file.Duration = report.duration()
		for _, t := range report.tracks() {
			if t.Kind == mediakit.TrackAudio {
				file.Bitrate = t.Bitrate
				break
			}
		}
	}
	if mergeErr == nil {
		file.TrackID = merge.firstTrackID(trackKind)
		file.Tracks = filterPayload(merge.tracks(), kind)
	} else if infoErr == nil {
		file.TrackID = report.firstTrackID(trackKind)
		file.Tracks = filterPayload(report.tracks(), kind)
	}
	if mergeErr != nil && infoErr != nil {
		// Plain text subtitle formats are not identifiable; the file is
		// still usable with just its filesystem metadata.
		c.logger.Debug("no tool could identify external file", "path", path, "error", mergeErr)
	}
	return file, nil
}

// filterPayload trims an embedded payload to the streams an external file of
// this kind may contribute: audio containers keep audio plus any subtitle
// streams riding along, subtitle containers keep subtitles only.
func filterPayload(tracks []mediakit.Track, kind mediakit.FileKind) []mediakit.Track {
	var out []mediakit.Track
	for _, t := range tracks {
		switch kind {
		case mediakit.FileAudio:
			if t.Kind == mediakit.TrackAudio || t.Kind == mediakit.TrackSubtitle {
				out = append(out, t)
			}
		case mediakit.FileSubtitle:
			if t.Kind == mediakit.TrackSubtitle {
				out = append(out, t)
			}
		}
	}
	return out
}

// supplementAudioBitrates overlays mediainfo audio bitrates onto the
// mkvmerge track list, pairing audio tracks by position.
func supplementAudioBitrates(tracks, supplement []mediakit.Track) {
	var audio []int64
	for _, t := range supplement {
		if t.Kind == mediakit.TrackAudio {
			audio = append(audio, t.Bitrate)
		}
	}
	idx := 0
	for i := range tracks {
		if tracks[i].Kind != mediakit.TrackAudio {
			continue
		}
		if idx < len(audio) && audio[idx] > 0 {
			tracks[i].Bitrate = audio[idx]
		}
		idx++
	}
}

func (c *Client) identify(ctx context.Context, path string) (mkvmergeIdentify, error) {
	out, err := c.run(ctx, c.mkvmerge, "-J", path)
	if err != nil {
		return mkvmergeIdentify{}, err
	}
	var result mkvmergeIdentify
	if err := json.Unmarshal(out, &result); err != nil {
		return mkvmergeIdentify{}, fmt.Errorf("mkvmerge identify parse: %w", err)
	}
	return result, nil
}

func (c *Client) report(ctx context.Context, path string) (mediainfoReport, error) {
	out, err := c.run(ctx, c.mediainfo, "--Output=JSON", path)
	if err != nil {
		return mediainfoReport{}, err
	}
	var result mediainfoReport
	if err := json.Unmarshal(out, &result); err != nil {
		return mediainfoReport{}, fmt.Errorf("mediainfo parse: %w", err)
	}
	return result, nil
}

func (c *Client) run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := commandContext(ctx, binary, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", binary, err)
	}
	return out, nil
}

func clockFormat(h, m, s uint64) string {
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatDuration renders a second count as HH:MM:SS, rejecting garbage
// values outside a sane range.
func formatDuration(seconds float64) string {
	if seconds < 0 || seconds > 86400*365 || seconds != seconds {
		return ""
	}
	total := uint64(seconds + 0.5)
	return clockFormat(total/3600, (total%3600)/60, total%60)
}
