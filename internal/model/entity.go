// Package model defines the domain types shared across the application.
//
// The central type is Resolution — a tagged union of the two things a lookup
// can resolve to: a Telegram account (user or bot) or a chat entity (group,
// supergroup or channel). Exactly one variant is populated per successful
// resolution, discriminated by Kind. Fields the platform may omit are
// pointers so "absent" and "zero" stay distinguishable; handlers must check
// for nil rather than probe for falsy values.
package model

import "time"

// Kind discriminates the variants of a Resolution.
type Kind string

const (
	KindAccount Kind = "account"
	KindGroup   Kind = "group"
)

// GroupKind is the chat subtype as reported by the platform.
type GroupKind string

const (
	GroupKindGroup      GroupKind = "group"
	GroupKindSupergroup GroupKind = "supergroup"
	GroupKindChannel    GroupKind = "channel"
)

// Account carries the raw fields the platform returns for a user or bot.
type Account struct {
	ID        int64
	FirstName string
	LastName  *string
	Username  *string
	Usernames []string
	Bio       *string
	DCID      *int
	IsBot     bool
	IsPremium bool
}

// Group carries the raw fields the platform returns for a group, supergroup
// or channel.
type Group struct {
	ID           int64
	Kind         GroupKind
	Title        string
	Username     *string
	Usernames    []string
	Description  *string
	DCID         *int
	MembersCount *int
}

// Links are the app-native deep links for an account.
type Links struct {
	Android   string `json:"android"`
	IOS       string `json:"ios"`
	Permanent string `json:"permanent"`
}

// ChatLinks are the join/permanent links for a chat entity.
type ChatLinks struct {
	Join      string `json:"join"`
	Permanent string `json:"permanent"`
}

// Resolution is the terminal output of a successful lookup: the resolved
// variant plus the fields derived from it. It is request-local and never
// mutated after the orchestrator returns it, except that the handler layer
// recomputes ProfilePhotoURL when the caller asks for a non-default size.
type Resolution struct {
	Kind    Kind     `json:"kind"`
	Account *Account `json:"account,omitempty"`
	Group   *Group   `json:"group,omitempty"`

	// Derived fields. AccountCreated/AccountAge are only set for accounts,
	// ChatLinks only for groups.
	DCLocation      string     `json:"dc_location"`
	AccountCreated  *time.Time `json:"account_created,omitempty"`
	AccountAge      string     `json:"account_age,omitempty"`
	ProfilePhotoURL string     `json:"profile_photo_url,omitempty"`
	Links           *Links     `json:"links,omitempty"`
	ChatLinks       *ChatLinks `json:"chat_links,omitempty"`
}

// Handle returns the primary public handle of the resolved entity, or ""
// when it has none.
func (r *Resolution) Handle() string {
	switch r.Kind {
	case KindAccount:
		if r.Account != nil && r.Account.Username != nil {
			return *r.Account.Username
		}
	case KindGroup:
		if r.Group != nil && r.Group.Username != nil {
			return *r.Group.Username
		}
	}
	return ""
}
