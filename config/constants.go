package config

import "time"

// Sequence generation defaults
const (
	// DefaultSequenceLength is the target item count when the caller does
	// not specify one
	DefaultSequenceLength = 150

	// DefaultMinSpacing is the minimum number of other clips between two
	// clips of the same category
	DefaultMinSpacing = 2
)

// Render pipeline constants
const (
	// MaxConcurrentTranscodes limits how many ffmpeg normalizations run at once
	MaxConcurrentTranscodes = 4

	// MaxConcurrentDownloads limits simultaneous clip downloads
	MaxConcurrentDownloads = 3

	// MaxConcurrentJobs limits render jobs executing in one process
	MaxConcurrentJobs = 3

	// JobRetention is how long finished job records stay in the store
	JobRetention = 7 * 24 * time.Hour
)

// Bucket layout for the media store
const (
	RawClipsPrefix       = "raw-video-clips/"
	ProcessedClipsPrefix = "processed-video-clips/"
	TempPrefix           = "temp-service-folder/"
)

// Kafka topics
const (
	RenderTopic        = "clipmix.render.requests"
	DefaultRenderGroup = "clipmix-render-workers"
)
