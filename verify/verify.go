package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/huellas/huella-app-sheets/attendance"
	"github.com/huellas/huella-app-sheets/capture"
)

const LOG_TAG = "verify"

var ErrNotFound = errors.New("fingerprint not found")

type Roster interface {
	Fetch(ctx context.Context) map[string]string
}

type Recorder interface {
	Append(ctx context.Context, record attendance.Record) error
}

type Result struct {
	ID     string
	Record attendance.Record
}

// Verifier matches a fingerprint hash against the roster and records attendance on a match.
// The roster is fetched fresh for every verification.
type Verifier struct {
	roster   Roster
	recorder Recorder
	label    string
	now      func() time.Time
}

func NewVerifier(roster Roster, recorder Recorder, label string) *Verifier {
	return &Verifier{
		roster:   roster,
		recorder: recorder,
		label:    label,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used to timestamp attendance records.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now

	return v
}

// Verify returns capture.ErrNoCapture for an empty hash and ErrNotFound for a hash that is not
// in the roster. A failure to record attendance is logged and does not fail the verification.
func (v *Verifier) Verify(ctx context.Context, hash string) (Result, error) {
	if hash == "" {
		return Result{}, capture.ErrNoCapture
	}

	roster := v.roster.Fetch(ctx)

	id, ok := roster[hash]
	if !ok {
		infof("fingerprint not recognised")
		return Result{}, fmt.Errorf("%w (%v)", ErrNotFound, hash)
	}

	infof("fingerprint recognised, ID %v", id)

	record := attendance.NewRecord(id, v.now(), v.label)
	if err := v.recorder.Append(ctx, record); err != nil {
		errorf("error recording attendance for %v (%v)", id, err)
	}

	return Result{
		ID:     id,
		Record: record,
	}, nil
}

func infof(format string, args ...any) {
	log.Infof("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func errorf(format string, args ...any) {
	log.Errorf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}
