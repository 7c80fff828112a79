package screen

import (
	"fmt"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// User-facing messages.
const (
	MsgAdded        = "Product added successfully"
	MsgAddFailed    = "Failed to add product"
	MsgInvalidInput = "Please enter a valid name and price"
	MsgUpdated      = "Product updated successfully"
	MsgUpdateFailed = "Failed to update product"
	MsgUpdateLookup = "Product not found or invalid price"
	MsgDeleted      = "Product deleted successfully"
	MsgDeleteFailed = "Failed to delete product"
	MsgNotFound     = "Product not found"
	MsgLoadFailed   = "Failed to load products"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}

// Notifier displays notifications. It may be called from the subscription
// goroutine as well as from the goroutine running an action.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
