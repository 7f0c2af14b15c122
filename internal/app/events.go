// Package app ties the draft store, templates, bitmaps and export together
// into an editing session.
package app

// EventType identifies session events.
type EventType int

const (
	EventDraftChanged EventType = iota
	EventTemplateLoaded
	EventSelectionChanged
	EventBitmapReady
	EventBitmapFailed
	EventExported
	EventUploaded
	EventUploadFailed
	EventMessageRendered
)

// EventListener is called when an event occurs. Listeners may run on a
// background goroutine.
type EventListener func(data interface{})

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.evMu.Lock()
	defer s.evMu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.evMu.RLock()
	listeners := s.listeners[event]
	s.evMu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
