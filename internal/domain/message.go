package domain

import "time"

// Thread represents a conversation between two users
// Participants are stored ordered (UserA < UserB) so that a pair has a single thread
type Thread struct {
	ID          int64
	UserA       string
	UserB       string
	LastMessage *Message
	CreatedAt   time.Time
}

// HasParticipant returns true if the user takes part in the thread
func (t *Thread) HasParticipant(userID string) bool {
	return t.UserA == userID || t.UserB == userID
}

// Peer returns the other participant of the thread
func (t *Thread) Peer(userID string) string {
	if t.UserA == userID {
		return t.UserB
	}
	return t.UserA
}

// OrderedPair returns the participants in storage order
func OrderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Message represents a single message in a thread
type Message struct {
	ID        int64
	ThreadID  int64
	SenderID  string
	Text      string
	CreatedAt time.Time
}

// MessagesPage keyset page of messages: newest first, strictly older than Before
type MessagesPage struct {
	ThreadID int64
	Before   *int64
	Limit    int
}
