package driver

import (
	"time"

	"alignby/internal/align"
)

// Status is the outcome of processing one file.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusUnchanged means the file was already aligned.
	StatusUnchanged Status = "unchanged"
	// StatusAligned means alignment changed the content.
	StatusAligned Status = "aligned"
	// StatusSkipped means the file was not processed (too large).
	StatusSkipped Status = "skipped"
	// StatusCanceled means the file carries align_by cancel_file.
	StatusCanceled Status = "canceled"
	// StatusFailed means the file could not be read, decoded or written.
	StatusFailed Status = "failed"
)

// Options configures AlignPaths and AlignFile.
type Options struct {
	Engine   align.Options
	Check    bool // report changes without writing
	Stdout   bool // keep the aligned bytes in Result.Output instead of writing
	Jobs     int  // worker limit, <= 0 means GOMAXPROCS
	BaseDir  string
	Cache    *DiskCache
	Progress ProgressSink
}

// Result captures the result of aligning a single file.
type Result struct {
	Path    string
	Display string // Path relative to Options.BaseDir
	Status  Status
	Changed bool // content differs after alignment (written unless Check/Stdout)
	Written bool
	Cached  bool // answered from the disk cache
	Groups  int
	Lines   int
	Err     error
	Output  []byte // only with Options.Stdout
	Elapsed time.Duration
}

// Summary counts results by status.
type Summary struct {
	Failed    int `json:"failed"`
	Unchanged int `json:"unchanged"`
	Aligned   int `json:"aligned"`
	Skipped   int `json:"skipped"`
	Canceled  int `json:"canceled"`
	Cached    int `json:"cached"`
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusFailed:
			s.Failed++
		case StatusUnchanged:
			s.Unchanged++
		case StatusAligned:
			s.Aligned++
		case StatusSkipped:
			s.Skipped++
		case StatusCanceled:
			s.Canceled++
		}
		if r.Cached {
			s.Cached++
		}
	}
	return s
}

// Total returns the number of files counted.
func (s Summary) Total() int {
	return s.Failed + s.Unchanged + s.Aligned + s.Skipped + s.Canceled
}
