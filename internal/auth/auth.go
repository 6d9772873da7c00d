// Package auth decides whether an inbound sender may use the bot.
package auth

// Policy is evaluated once per inbound event, before any state is touched.
type Policy interface {
	Allow(userID int64) bool
}

// AllowAll permits every sender.
type AllowAll struct{}

func (AllowAll) Allow(int64) bool { return true }

// Allowlist permits only the configured user IDs.
type Allowlist struct {
	ids map[int64]struct{}
}

func NewAllowlist(ids []int64) *Allowlist {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Allowlist{ids: set}
}

func (a *Allowlist) Allow(userID int64) bool {
	_, ok := a.ids[userID]
	return ok
}

// FromConfig picks the policy: an empty list means the bot is open to
// everyone, otherwise only listed users get through.
func FromConfig(ids []int64) Policy {
	if len(ids) == 0 {
		return AllowAll{}
	}
	return NewAllowlist(ids)
}
