package model

import "time"

// ReviewStatus represents the current state of a task's review block.
type ReviewStatus string

const (
	// ReviewNone is the zero state - no review has been requested on the
	// current work cycle. It is never stored; a nil Review block stands for it.
	ReviewNone ReviewStatus = ""

	ReviewRequested ReviewStatus = "REVIEW_REQUESTED"
	ReviewUnder     ReviewStatus = "UNDER_REVIEW"
	ReviewApproved  ReviewStatus = "APPROVED"
	ReviewRejected  ReviewStatus = "REJECTED"
)

// Active reports whether the status requires a designated reviewer.
func (s ReviewStatus) Active() bool {
	return s == ReviewRequested || s == ReviewUnder
}

// Decided reports whether the status is a terminal review decision.
func (s ReviewStatus) Decided() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// Review is the review block of a task. It is created on the first review
// request and reset (not deleted) when a decided task is re-requested.
type Review struct {
	Status ReviewStatus `json:"status" yaml:"status"`

	RequestedBy string     `json:"requestedBy" yaml:"requestedBy"`
	RequestedAt *time.Time `json:"requestedAt,omitempty" yaml:"requestedAt,omitempty"`

	// Reviewer is the identity invited to review; non-empty exactly while
	// Status is REVIEW_REQUESTED or UNDER_REVIEW.
	Reviewer string `json:"reviewer,omitempty" yaml:"reviewer,omitempty"`

	ReviewedBy string     `json:"reviewedBy,omitempty" yaml:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty" yaml:"reviewedAt,omitempty"`

	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// PriorTaskStatus records the working status the task had before the
	// request moved it to ON_HOLD, so that a decline or withdrawal can
	// restore it.
	PriorTaskStatus Status `json:"priorTaskStatus,omitempty" yaml:"priorTaskStatus,omitempty"`
}

// Clone returns a copy of the review block.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	ret := *r
	if r.RequestedAt != nil {
		v := *r.RequestedAt
		ret.RequestedAt = &v
	}
	if r.ReviewedAt != nil {
		v := *r.ReviewedAt
		ret.ReviewedAt = &v
	}
	return &ret
}
