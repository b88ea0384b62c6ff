// Package stylelock holds the session style context and the pure transition
// function of its Unlocked/Locked state machine.
package stylelock

import "devart/internal/style"

// Context is the style lock for one session. A zero Context is unlocked.
// BaseSeed 0 means no base seed was captured.
type Context struct {
	Locked            bool          `json:"isLocked"`
	Params            *style.Params `json:"params,omitempty"`
	Description       string        `json:"description"`
	PromptFragment    string        `json:"promptFragment"`
	LockedFromAssetID string        `json:"lockedFromAssetId,omitempty"`
	BaseSeed          int64         `json:"baseSeed,omitempty"`
}

// Event is a transition input for Reduce.
type Event interface {
	isEvent()
}

// BatchSucceeded is emitted after a batch produced at least one asset.
// It locks only when the context is currently unlocked.
type BatchSucceeded struct {
	Params       style.Params
	Description  string
	Fragment     string
	FirstAssetID string
	BaseSeed     int64
}

// LockFromAsset pins the style of an existing asset. When the asset kept no
// structured params they are recovered from its prompt.
type LockFromAsset struct {
	AssetID string
	Prompt  string
	Seed    int64
	Params  *style.Params
}

// Unlock clears every captured field.
type Unlock struct{}

func (BatchSucceeded) isEvent() {}
func (LockFromAsset) isEvent()  {}
func (Unlock) isEvent()         {}

// Reduce returns the context that follows c after ev. c is never modified.
func Reduce(c Context, ev Event) Context {
	switch e := ev.(type) {
	case BatchSucceeded:
		if c.Locked || e.FirstAssetID == "" {
			return c
		}
		return locked(e.Params, e.Description, e.Fragment, e.FirstAssetID, e.BaseSeed)

	case LockFromAsset:
		var params style.Params
		if e.Params != nil {
			params = *e.Params
		} else {
			params = style.ExtractFromPrompt(e.Prompt)
		}
		params = params.Normalize()
		return locked(params, style.Describe(params), style.Fragment(params), e.AssetID, e.Seed)

	case Unlock:
		return Context{}
	}
	return c
}

func locked(params style.Params, description, fragment, assetID string, baseSeed int64) Context {
	p := params.Normalize()
	return Context{
		Locked:            true,
		Params:            &p,
		Description:       description,
		PromptFragment:    fragment,
		LockedFromAssetID: assetID,
		BaseSeed:          baseSeed,
	}
}

// Effective returns the locked params when locked, fresh otherwise.
func (c Context) Effective(fresh style.Params) style.Params {
	if c.Locked && c.Params != nil {
		return c.Params.Normalize()
	}
	return fresh
}

// Seed returns the locked base seed, or derive() when none is pinned.
func (c Context) Seed(derive func() int64) int64 {
	if c.Locked && c.BaseSeed != 0 {
		return c.BaseSeed
	}
	return derive()
}

// IsLockedFrom reports whether the lock was taken from the given asset.
func (c Context) IsLockedFrom(assetID string) bool {
	return c.Locked && assetID != "" && c.LockedFromAssetID == assetID
}
