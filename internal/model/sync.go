package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Mode selects the reconciler's write policy for existing variants. A
// closed enum rather than a bool so a future policy does not turn into
// flag combinatorics.
type Mode string

const (
	// ModeDefault never touches live stock on existing variants.
	ModeDefault Mode = "default"
	// ModeRestock raises stock monotonically toward the source value.
	ModeRestock Mode = "restock"
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeDefault):
		return ModeDefault, nil
	case string(ModeRestock):
		return ModeRestock, nil
	default:
		return "", fmt.Errorf("%w: unknown sync mode %q", ErrValidation, s)
	}
}

// ReconcileResult reports one draft's reconciliation. RowErrors carry
// per-size failures that did not abort the draft.
type ReconcileResult struct {
	ProductID  uuid.UUID  `json:"product_id"`
	SizesCount int        `json:"sizes_count"`
	RowErrors  []RowError `json:"row_errors,omitempty"`
}

type RowError struct {
	ExternalSizeID int64  `json:"external_size_id"`
	Message        string `json:"message"`
}

// SyncError records one draft that failed mid-batch.
type SyncError struct {
	DraftID int64  `json:"draft_id"`
	Message string `json:"message"`
}

// SyncReport is the batch runner's summary. OK means no draft errored;
// every non-erroring draft is committed regardless.
type SyncReport struct {
	RunID        uuid.UUID   `json:"run_id"`
	DryRun       bool        `json:"dry_run"`
	Mode         Mode        `json:"mode"`
	Processed    int         `json:"processed"`
	VariantTotal int         `json:"variant_total"`
	SkippedRows  int         `json:"skipped_rows"`
	Errors       []SyncError `json:"errors"`
	OK           bool        `json:"ok"`
}

// PublishPlan is the dry-run artifact: what a live reconcile would do,
// without doing it. Never persisted.
type PublishPlan struct {
	DraftID     int64        `json:"draft_id"`
	Mode        Mode         `json:"mode"`
	RowsTotal   int          `json:"rows_total"`
	RowsMapped  int          `json:"rows_mapped"`
	RowsSkipped int          `json:"rows_skipped"`
	WillCreate  int          `json:"will_create"`
	WillUpdate  int          `json:"will_update"`
	Media       MediaSummary `json:"media"`
}

// PublishOptions controls a publish transition: Validate applies the
// publish gate, Push reconciles the bridge (default mode) first.
type PublishOptions struct {
	Validate bool
	Push     bool
}

type PublishState string

const (
	PublishStateDraft     PublishState = "DRAFT"
	PublishStatePublished PublishState = "PUBLISHED"
)

// PublishResult reports a publish/unpublish transition. BridgeStale is
// set when the source transitioned but the bridge write failed; the two
// stores share no transaction, so this is a note, not a rollback.
type PublishResult struct {
	DraftID     int64        `json:"draft_id"`
	State       PublishState `json:"state"`
	AlreadyInIt bool         `json:"already_in_state,omitempty"`
	Pushed      bool         `json:"pushed,omitempty"`
	BridgeStale bool         `json:"bridge_stale,omitempty"`
	Note        string       `json:"note,omitempty"`
}
