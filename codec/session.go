package codec

import (
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

// Session carries the state of one read or write walk down to every codec.
// Children created by At share the budget and the update log.
type Session struct {
	Mapper keypath.Mapper
	Budget *result.Budget
	// Comments filters the comment positions written; nil keeps all.
	Comments func(tree.CommentPosition) bool

	path    keypath.Path
	updates *[]result.Update
}

// NewSession starts a walk at prefix. A nil mapper stores labels unchanged.
func NewSession(mapper keypath.Mapper, budget *result.Budget, prefix keypath.Path) *Session {
	if mapper == nil {
		mapper = keypath.Identity{}
	}

	return &Session{
		Mapper:  mapper,
		Budget:  budget,
		path:    prefix,
		updates: new([]result.Update),
	}
}

// Path is the absolute location of the session.
func (s *Session) Path() keypath.Path { return s.path }

// At returns the session one segment deeper.
func (s *Session) At(seg keypath.Segment) *Session {
	c := *s
	c.path = s.path.Append(seg)

	return &c
}

// Key maps label through the session mapper.
func (s *Session) Key(label string) string { return s.Mapper.Map(label) }

// Record logs an update at the session path.
func (s *Session) Record(reason result.Reason) {
	*s.updates = append(*s.updates, result.Update{Path: s.path, Reason: reason})
}

// Admit hands errs to the shared budget at the moment they are found, so the
// cap keeps the first errors in traversal order. It returns the kept errors
// and how many were dropped.
func (s *Session) Admit(errs []*result.ValueError) ([]*result.ValueError, int) {
	kept := s.Budget.Admit(errs)
	return kept, len(errs) - len(kept)
}

// Updates returns the updates recorded by the whole walk so far.
func (s *Session) Updates() []result.Update { return *s.updates }

// KeepComment reports whether comments at pos should be written.
func (s *Session) KeepComment(pos tree.CommentPosition) bool {
	return s.Comments == nil || s.Comments(pos)
}
