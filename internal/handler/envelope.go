package handler

import (
	"github.com/nkka404/tginfo/internal/derive"
	"github.com/nkka404/tginfo/internal/model"
)

// attribution is appended to every envelope regardless of outcome.
type attribution struct {
	APIOwner   string `json:"api_owner"`
	APIUpdates string `json:"api_updates"`
}

// UserEnvelope is the response contract for resolved accounts. Absent
// source fields serialize as null, not as omitted keys, so the shape stays
// stable across heterogeneous entities.
type UserEnvelope struct {
	Success         bool     `json:"success"`
	Type            string   `json:"type"`
	ID              int64    `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Username        *string  `json:"username"`
	Usernames       []string `json:"usernames"`
	Bio             *string  `json:"bio"`
	DCID            *int     `json:"dc_id"`
	DCLocation      string   `json:"dc_location"`
	IsPremium       bool     `json:"is_premium"`
	IsBot           bool     `json:"is_bot"`
	AccountCreated  string   `json:"account_created"`
	AccountAge      string   `json:"account_age"`
	ProfilePhotoURL *string  `json:"profile_photo_url"`
	attribution
	Links model.Links `json:"links"`
}

// ChatEnvelope is the response contract for resolved groups, supergroups
// and channels.
type ChatEnvelope struct {
	Success         bool     `json:"success"`
	Type            string   `json:"type"`
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Username        *string  `json:"username"`
	Usernames       []string `json:"usernames"`
	Description     *string  `json:"description"`
	DCID            *int     `json:"dc_id"`
	DCLocation      string   `json:"dc_location"`
	MembersCount    *int     `json:"members_count"`
	ProfilePhotoURL *string  `json:"profile_photo_url"`
	attribution
	Links model.ChatLinks `json:"links"`
}

// ErrorEnvelope is the response contract for every non-success outcome.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	attribution
}

// Assembler maps orchestrator output plus request-time parameters into the
// final envelope shapes.
type Assembler struct {
	Owner       string
	Updates     string
	DefaultSize int
}

// Success flattens a resolution into its envelope. The photo URL is
// re-derived at the requested size; nothing else depends on request
// parameters.
func (a Assembler) Success(res *model.Resolution, size int) any {
	if size <= 0 {
		size = a.DefaultSize
	}
	photo := optional(derive.ProfilePhotoURL(res.Handle(), size))

	switch res.Kind {
	case model.KindGroup:
		group := res.Group
		env := ChatEnvelope{
			Success:         true,
			Type:            string(group.Kind),
			ID:              group.ID,
			Title:           group.Title,
			Username:        group.Username,
			Usernames:       nonNil(group.Usernames),
			Description:     group.Description,
			DCID:            group.DCID,
			DCLocation:      res.DCLocation,
			MembersCount:    group.MembersCount,
			ProfilePhotoURL: photo,
			attribution:     a.attribution(),
		}
		if res.ChatLinks != nil {
			env.Links = *res.ChatLinks
		}
		return env
	default:
		acc := res.Account
		kind := "user"
		if acc.IsBot {
			kind = "bot"
		}
		created := ""
		if res.AccountCreated != nil {
			created = res.AccountCreated.Format("January 02, 2006")
		}
		env := UserEnvelope{
			Success:         true,
			Type:            kind,
			ID:              acc.ID,
			FirstName:       acc.FirstName,
			LastName:        acc.LastName,
			Username:        acc.Username,
			Usernames:       nonNil(acc.Usernames),
			Bio:             acc.Bio,
			DCID:            acc.DCID,
			DCLocation:      res.DCLocation,
			IsPremium:       acc.IsPremium,
			IsBot:           acc.IsBot,
			AccountCreated:  created,
			AccountAge:      res.AccountAge,
			ProfilePhotoURL: photo,
			attribution:     a.attribution(),
		}
		if res.Links != nil {
			env.Links = *res.Links
		}
		return env
	}
}

// Failure wraps an error message in the fixed envelope.
func (a Assembler) Failure(message string) ErrorEnvelope {
	return ErrorEnvelope{Success: false, Error: message, attribution: a.attribution()}
}

func (a Assembler) attribution() attribution {
	return attribution{APIOwner: a.Owner, APIUpdates: a.Updates}
}

// optional turns "" into a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nonNil keeps empty username lists serializing as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
