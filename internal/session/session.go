// Package session owns the lifecycle of one study session, from upload
// through the dashboard and back.
package session

import (
	"errors"
	"fmt"

	"github.com/csheth/studygenius/internal/chat"
	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/study"
)

// AnalysisFailedMessage is shown on the upload screen after any analysis failure.
const AnalysisFailedMessage = "Failed to process document. Please try again or check your API Key. Ensure the file is not corrupted and is a supported format."

var ErrInvalidTransition = errors.New("invalid session transition")

type Phase int

const (
	PhaseAwaitingUpload Phase = iota
	PhaseProcessing
	PhaseDashboard
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingUpload:
		return "awaiting-upload"
	case PhaseProcessing:
		return "processing"
	case PhaseDashboard:
		return "dashboard"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Tab selects the active dashboard view.
type Tab int

const (
	TabNotes Tab = iota
	TabAssessment
	TabChat
)

var Tabs = []Tab{TabNotes, TabAssessment, TabChat}

func (t Tab) String() string {
	switch t {
	case TabNotes:
		return "Notes & Maps"
	case TabAssessment:
		return "Assessment"
	case TabChat:
		return "AI Tutor"
	default:
		return fmt.Sprintf("tab(%d)", int(t))
	}
}

// Event is an input to the state machine.
type Event interface {
	event()
}

// UploadAccepted starts analysis of a file that passed ingestion.
type UploadAccepted struct {
	File ingest.UploadedFile
}

// AnalysisSucceeded delivers the decoded result for the file in flight.
type AnalysisSucceeded struct {
	Result study.Result
}

// AnalysisFailed reports any gateway failure for the file in flight.
type AnalysisFailed struct {
	Err error
}

// ResetRequested discards the current document ("New Upload").
type ResetRequested struct{}

// TabSelected switches the dashboard view.
type TabSelected struct {
	Tab Tab
}

func (UploadAccepted) event()    {}
func (AnalysisSucceeded) event() {}
func (AnalysisFailed) event()    {}
func (ResetRequested) event()    {}
func (TabSelected) event()       {}

// Session is the single active session. Apply is its only mutator.
type Session struct {
	phase   Phase
	tab     Tab
	file    *ingest.UploadedFile
	result  *study.Result
	log     *chat.Log
	quiz    *study.Quiz
	errMsg  string
	lastErr error
}

// New returns a session waiting for an upload.
func New() *Session {
	return &Session{}
}

// Apply runs one transition. Events that do not apply in the current phase
// leave the session untouched and return ErrInvalidTransition.
func (s *Session) Apply(ev Event) error {
	switch e := ev.(type) {
	case UploadAccepted:
		if s.phase != PhaseAwaitingUpload {
			return s.reject(ev)
		}
		file := e.File
		s.file = &file
		s.errMsg = ""
		s.lastErr = nil
		s.phase = PhaseProcessing
	case AnalysisSucceeded:
		if s.phase != PhaseProcessing {
			return s.reject(ev)
		}
		result := e.Result
		s.result = &result
		s.log = chat.NewLog()
		s.quiz = study.NewQuiz(result.Assessments)
		s.tab = TabNotes
		s.phase = PhaseDashboard
	case AnalysisFailed:
		if s.phase != PhaseProcessing {
			return s.reject(ev)
		}
		s.clear()
		s.errMsg = AnalysisFailedMessage
		s.lastErr = e.Err
	case ResetRequested:
		if s.phase != PhaseDashboard {
			return s.reject(ev)
		}
		s.clear()
		s.errMsg = ""
		s.lastErr = nil
	case TabSelected:
		if s.phase != PhaseDashboard {
			return s.reject(ev)
		}
		if e.Tab < TabNotes || e.Tab > TabChat {
			return fmt.Errorf("%w: unknown tab %d", ErrInvalidTransition, int(e.Tab))
		}
		s.tab = e.Tab
	default:
		return fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
	return nil
}

func (s *Session) reject(ev Event) error {
	return fmt.Errorf("%w: %T while %s", ErrInvalidTransition, ev, s.phase)
}

func (s *Session) clear() {
	s.phase = PhaseAwaitingUpload
	s.tab = TabNotes
	s.file = nil
	s.result = nil
	s.log = nil
	s.quiz = nil
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Tab() Tab { return s.tab }

// File returns the uploaded file while processing or on the dashboard.
func (s *Session) File() (ingest.UploadedFile, bool) {
	if s.file == nil {
		return ingest.UploadedFile{}, false
	}
	return *s.file, true
}

// Result returns the active analysis once on the dashboard.
func (s *Session) Result() (study.Result, bool) {
	if s.result == nil {
		return study.Result{}, false
	}
	return *s.result, true
}

// Conversation is nil outside the dashboard.
func (s *Session) Conversation() *chat.Log { return s.log }

// Quiz is nil outside the dashboard.
func (s *Session) Quiz() *study.Quiz { return s.quiz }

// ErrorMessage is the user-visible message left by the last failed analysis.
func (s *Session) ErrorMessage() string { return s.errMsg }

// Cause is the underlying error behind ErrorMessage, for logs.
func (s *Session) Cause() error { return s.lastErr }

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	Phase        Phase
	Tab          Tab
	FileName     string
	MediaType    ingest.MediaType
	HasResult    bool
	Questions    int
	Messages     int
	ErrorMessage string
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:        s.phase,
		Tab:          s.tab,
		ErrorMessage: s.errMsg,
	}
	if s.file != nil {
		snap.FileName = s.file.Name
		snap.MediaType = s.file.MediaType
	}
	if s.result != nil {
		snap.HasResult = true
		snap.Questions = len(s.result.Assessments)
	}
	if s.log != nil {
		snap.Messages = s.log.Len()
	}
	return snap
}
