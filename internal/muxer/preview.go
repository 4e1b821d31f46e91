package muxer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"batchmux/internal/mediakit"
)

// Preview is the dry-run rendering of one job: the exact command that
// would run, plus warnings about inputs that would fail at execution time.
type Preview struct {
	JobID      string
	VideoPath  string
	OutputPath string
	FastPath   bool
	Command    []string
	Warnings   []string
}

// CommandLine renders the command as a shell-pasteable string.
func (p Preview) CommandLine() string {
	quoted := make([]string, len(p.Command))
	for i, arg := range p.Command {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// PreviewJobs renders every job without touching any file. Missing inputs
// become warnings rather than errors so the whole batch stays inspectable.
func PreviewJobs(jobs []mediakit.JobRequest, s Settings) []Preview {
	s = s.normalized()
	now := time.Now()
	previews := make([]Preview, 0, len(jobs))
	for _, job := range jobs {
		previews = append(previews, previewJob(job, s, now))
	}
	return previews
}

func previewJob(job mediakit.JobRequest, s Settings, now time.Time) Preview {
	p := Preview{JobID: job.ID, VideoPath: job.Video.Path}

	plan, err := PlanOutput(job, s, now)
	if err != nil {
		p.Warnings = append(p.Warnings, err.Error())
	} else {
		p.OutputPath = plan.OutputPath
	}

	if CanUseFastPath(job, s) {
		if args := BuildPropeditArgs(job); args != nil {
			p.FastPath = true
			p.Command = append([]string{s.MkvpropeditBinary}, args...)
		}
	}
	if p.Command == nil {
		p.Command = append([]string{s.MkvmergeBinary}, BuildCommand(job, p.OutputPath, s)...)
	}

	checkInput(&p, job.Video.Path)
	for _, group := range [][]mediakit.ExternalFile{job.Audios, job.Subtitles, job.Chapters, job.Attachments} {
		for _, file := range group {
			checkInput(&p, file.Path)
		}
	}
	return p
}

func checkInput(p *Preview, path string) {
	if _, err := os.Stat(path); err != nil {
		p.Warnings = append(p.Warnings, fmt.Sprintf("input file missing: %s", path))
	}
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\"'\\$&|;<>()*?!~`#") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
