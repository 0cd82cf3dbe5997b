package client

import (
	"fmt"
	"io"
	"sync"
)

// Toast messages shown after mutations.
const (
	MsgShared              = "Link shared successfully!"
	MsgShareFailed         = "Failed to share link"
	MsgEnterURL            = "Please enter a URL"
	MsgFavouriteAdded      = "Added to favourites!"
	MsgFavouriteAddFailed  = "Failed to add to favourites"
	MsgFavouriteRemoved    = "Removed from favourites!"
	MsgFavouriteRemoveFail = "Failed to remove from favourites"
	MsgDeleted             = "Link deleted successfully!"
	MsgDeleteFailed        = "Failed to delete link"
	MsgUpdated             = "Link updated successfully!"
	MsgUpdateFailed        = "Failed to update link"
	MsgOpenFailed          = "Failed to open link"
	MsgClickFailed         = "Failed to record click"
)

// Notifier receives user-facing toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// WriterNotifier prints toasts as lines on an io.Writer.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier returns a Notifier that writes to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) {
	n.write("✓ " + msg)
}

func (n *WriterNotifier) Error(msg string) {
	n.write("✗ " + msg)
}

func (n *WriterNotifier) write(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.w, line)
}

// Toast is one recorded notification.
type Toast struct {
	Error   bool
	Message string
}

// RecordingNotifier keeps every toast in memory.
type RecordingNotifier struct {
	mu     sync.Mutex
	toasts []Toast
}

func (n *RecordingNotifier) Success(msg string) {
	n.record(Toast{Message: msg})
}

func (n *RecordingNotifier) Error(msg string) {
	n.record(Toast{Error: true, Message: msg})
}

// Toasts returns a copy of the recorded notifications.
func (n *RecordingNotifier) Toasts() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.toasts...)
}

func (n *RecordingNotifier) record(t Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, t)
}
