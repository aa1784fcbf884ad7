// Package session holds the per-user state of one interactive session: the
// active knowledge base, the files attached to it and the chat transcript.
//
// A State is owned by exactly one user and mutated by one action at a time,
// so it carries no locking.
package session

import "docchat/internal/domain"

// Snapshot is what a reset made the session forget.
type Snapshot struct {
	KnowledgeBase domain.KnowledgeBase
	Files         []domain.FileHandle
}

// Empty reports whether nothing remote was referenced.
func (s Snapshot) Empty() bool {
	return s.KnowledgeBase == "" && len(s.Files) == 0
}

// State is the process-local session: active collection, its files and the
// chat transcript. It is not safe for concurrent use.
type State struct {
	knowledgeBase domain.KnowledgeBase
	files         []domain.FileHandle
	transcript    []domain.Message
}

// New returns an empty session.
func New() *State {
	return &State{}
}

// KnowledgeBase returns the active collection, if any.
func (s *State) KnowledgeBase() (domain.KnowledgeBase, bool) {
	return s.knowledgeBase, s.knowledgeBase != ""
}

// Files returns a copy of the attached file handles.
func (s *State) Files() []domain.FileHandle {
	return append([]domain.FileHandle(nil), s.files...)
}

// Transcript returns a copy of the chat history in chronological order.
func (s *State) Transcript() []domain.Message {
	return append([]domain.Message(nil), s.transcript...)
}

// Begin forgets the previous collection, files and transcript and makes kb active.
func (s *State) Begin(kb domain.KnowledgeBase) Snapshot {
	prev := s.Clear()
	s.knowledgeBase = kb
	return prev
}

// Attach records a file that was uploaded and registered with the active collection.
func (s *State) Attach(handle domain.FileHandle) {
	s.files = append(s.files, handle)
}

// Append adds a message to the end of the transcript.
func (s *State) Append(msg domain.Message) {
	s.transcript = append(s.transcript, msg)
}

// Abandon drops an active collection that ended up with no attached files.
// It returns the forgotten collection, or "" when files are attached.
func (s *State) Abandon() domain.KnowledgeBase {
	if len(s.files) > 0 {
		return ""
	}
	kb := s.knowledgeBase
	s.knowledgeBase = ""
	return kb
}

// Clear resets the session. Nothing is deleted remotely.
func (s *State) Clear() Snapshot {
	prev := Snapshot{KnowledgeBase: s.knowledgeBase, Files: s.files}
	s.knowledgeBase = ""
	s.files = nil
	s.transcript = nil
	return prev
}
