// Package gateway abstracts the Telegram transport behind a small
// interface so controllers never depend on the wire client.
package gateway

import (
	"context"
)

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

// FileAttachment is an opaque reference to a file held by the transport.
type FileAttachment struct {
	FileRef   string
	SizeBytes *int64
}

// CallbackEvent is an inline button tap.
type CallbackEvent struct {
	ID        string
	Data      string
	MessageID int
}

// Update is one normalized inbound event.
type Update struct {
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	MessageID int
	Text      string          // message text; caption for media messages
	Video     *FileAttachment // set for video or video document uploads
	Photo     *FileAttachment // largest photo size, set for photo uploads
	Callback  *CallbackEvent  // set for button taps
}

// Button is one inline keyboard button. Data and URL are mutually
// exclusive.
type Button struct {
	Text string
	Data string
	URL  string
}

// Message is one outbound send. When VideoRef is set the message is a
// video, when PhotoRef is set a photo with caption, otherwise text.
type Message struct {
	ChatID   int64
	Text     string
	VideoRef string
	PhotoRef string
	Buttons  [][]Button
}

// MemberStatus is a channel membership verdict.
type MemberStatus string

const (
	MemberOwner  MemberStatus = "creator"
	MemberAdmin  MemberStatus = "administrator"
	MemberIn     MemberStatus = "member"
	MemberLeft   MemberStatus = "left"
	MemberKicked MemberStatus = "kicked"
)

// Satisfied reports whether the status counts as channel membership.
func (s MemberStatus) Satisfied() bool {
	switch s {
	case MemberOwner, MemberAdmin, MemberIn:
		return true
	}
	return false
}

// Gateway is the messaging boundary: inbound updates, outbound sends,
// and membership lookups.
type Gateway interface {
	// Updates returns the inbound event stream. The channel closes when
	// the context is canceled.
	Updates(ctx context.Context) <-chan Update

	// Send delivers one outbound message.
	Send(ctx context.Context, msg Message) error

	// EditText replaces the text and keyboard of a previously sent message.
	EditText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]Button) error

	// AnswerCallback acknowledges a button tap, optionally with a toast.
	AnswerCallback(ctx context.Context, callbackID, text string) error

	// ChatMember reports a user's membership status in a channel.
	ChatMember(ctx context.Context, channel string, userID int64) (MemberStatus, error)
}
