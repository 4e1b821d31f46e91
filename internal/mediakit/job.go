package mediakit

// JobRequest is the fully-resolved, per-video specification handed to the
// mux executor. Built fresh for every assembly pass and never mutated in
// place; any entity store change invalidates previously built requests.
type JobRequest struct {
	ID          string         `json:"id"`
	Video       VideoFile      `json:"video"`
	Audios      []ExternalFile `json:"audios"`
	Subtitles   []ExternalFile `json:"subtitles"`
	Chapters    []ExternalFile `json:"chapters"`
	Attachments []ExternalFile `json:"attachments"`
}

// Clone returns a deep copy of the job request.
func (j JobRequest) Clone() JobRequest {
	return JobRequest{
		ID:          j.ID,
		Video:       j.Video.Clone(),
		Audios:      CloneExternals(j.Audios),
		Subtitles:   CloneExternals(j.Subtitles),
		Chapters:    CloneExternals(j.Chapters),
		Attachments: CloneExternals(j.Attachments),
	}
}
