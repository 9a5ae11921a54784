package sysroot

// Status captures progress state for one copy operation.
type Status string

const (
	// StatusWorking indicates the file is being copied.
	StatusWorking Status = "working"
	// StatusDone indicates all planned copies finished.
	StatusDone Status = "done"
	// StatusError indicates the synthesis aborted.
	StatusError Status = "error"
)

// Event reports synthesis progress. Path is the destination-relative path of
// the file being copied (empty for whole-run events); Copied/Total count
// planned copy entries.
type Event struct {
	Path   string
	Copied int
	Total  int
	Status Status
	Err    error
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
