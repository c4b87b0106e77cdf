package tui

import (
	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/study"
)

type stage int

const (
	stageCredential stage = iota
	stageUpload
	stageProcessing
	stageDashboard
)

func (s stage) String() string {
	switch s {
	case stageCredential:
		return "credential"
	case stageUpload:
		return "upload"
	case stageProcessing:
		return "processing"
	case stageDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

const (
	anchorSummary     = "summary"
	anchorKeyPoints   = "key_points"
	anchorDetailed    = "detailed"
	anchorDefinitions = "definitions"
	anchorMindMap     = "mind_map"
)

var sectionSequence = []string{
	anchorSummary,
	anchorKeyPoints,
	anchorDetailed,
	anchorDefinitions,
	anchorMindMap,
}

const heroTagline = "Turn your study materials into Mastery."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	pickerMinHeight           = 5
)

type uploadFocus int

const (
	focusPicker uploadFocus = iota
	focusPath
)

const (
	credentialPlaceholder = "Enter API Key (starts with AIza...)"
	pathPlaceholder       = "Type a path to a PDF, image, or text file…"
	composerPlaceholder   = "Ask a question about your notes…"
)

type ingestResultMsg struct {
	source string
	file   ingest.UploadedFile
	err    error
}

type analysisResultMsg struct {
	fileName string
	result   study.Result
	err      error
}

type chatReplyMsg struct {
	generation int
	reply      string
}

type credentialSavedMsg struct {
	key string
	err error
}

type inboxFileMsg struct {
	path string
}
