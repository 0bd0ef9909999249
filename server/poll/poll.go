package poll

import (
	"encoding/json"
	"fmt"
	"time"
)

// Poll stores all needed information for an open food poll
type Poll struct {
	ChatID      int64     `json:"chatId"`
	MessageID   int64     `json:"messageId"`
	Type        string    `json:"type"`
	Time        time.Time `json:"time"`
	Name        string    `json:"name,omitempty"`
	TextVariant int       `json:"translationNumber"`
	Members     []Member  `json:"members"`
}

// Member stores a participant of a poll. Name is a snapshot taken when the
// user joined and is never re-fetched.
type Member struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

// NewPoll creates a new poll with the creator as its sole member.
func NewPoll(chatID, messageID int64, pollType string, deadline time.Time, name string, textVariant int, creator Member) *Poll {
	return &Poll{
		ChatID:      chatID,
		MessageID:   messageID,
		Type:        pollType,
		Time:        deadline,
		Name:        name,
		TextVariant: textVariant,
		Members:     []Member{creator},
	}
}

// ID returns the lookup key of a poll. It is derived from the chat and the
// announcement message and is stable once the announcement exists.
func (p *Poll) ID() string {
	return ID(p.ChatID, p.MessageID)
}

// ID builds a poll lookup key from a chat and a message id.
func ID(chatID, messageID int64) string {
	return fmt.Sprintf("%d/%d", chatID, messageID)
}

// AddMember appends a new member in join order. It returns false if the user
// is already a member, making a second join a no-op.
func (p *Poll) AddMember(m Member) bool {
	if p.HasMember(m.UserID) {
		return false
	}
	p.Members = append(p.Members, m)
	return true
}

// RemoveMember removes the member with the given user id. It returns false
// if no such member exists.
func (p *Poll) RemoveMember(userID int64) bool {
	for i, m := range p.Members {
		if m.UserID == userID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true
		}
	}
	return false
}

// HasMember returns true if a given user has joined this poll
func (p *Poll) HasMember(userID int64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberNames returns the display names of all members in join order.
func (p *Poll) MemberNames() []string {
	names := make([]string, len(p.Members))
	for i, m := range p.Members {
		names[i] = m.Name
	}
	return names
}

// EncodeToByte returns a poll as a byte array
func (p *Poll) EncodeToByte() []byte {
	b, _ := json.Marshal(p)
	return b
}

// DecodePollFromByte tries to create a poll from a byte array
func DecodePollFromByte(b []byte) *Poll {
	p := Poll{}
	err := json.Unmarshal(b, &p)
	if err != nil {
		return nil
	}
	return &p
}

// Copy deep copies a poll
func (p *Poll) Copy() *Poll {
	p2 := new(Poll)
	*p2 = *p
	if p.Members != nil {
		p2.Members = make([]Member, len(p.Members))
		copy(p2.Members, p.Members)
	}
	return p2
}
