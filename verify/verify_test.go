package verify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huellas/huella-app-sheets/attendance"
	"github.com/huellas/huella-app-sheets/capture"
)

type roster struct {
	entries map[string]string
	fetched int
}

func (r *roster) Fetch(ctx context.Context) map[string]string {
	r.fetched++

	return r.entries
}

type recorder struct {
	records []attendance.Record
	err     error
}

func (r *recorder) Append(ctx context.Context, record attendance.Record) error {
	r.records = append(r.records, record)

	return r.err
}

var timestamp = time.Date(2026, time.October, 16, 12, 30, 5, 0, time.Local)

func newVerifier(entries map[string]string, rec *recorder) (*Verifier, *roster) {
	r := &roster{entries: entries}
	v := NewVerifier(r, rec, "Almuerzo").WithClock(func() time.Time { return timestamp })

	return v, r
}

func TestVerify(t *testing.T) {
	rec := recorder{}
	v, _ := newVerifier(map[string]string{"abc123": "12345678"}, &rec)

	result, err := v.Verify(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "12345678", result.ID)

	expected := attendance.Record{ID: "12345678", Date: "16/10/2026", Time: "12:30:05", Label: "Almuerzo"}
	require.Len(t, rec.records, 1)
	assert.Equal(t, expected, rec.records[0])
	assert.Equal(t, expected, result.Record)
}

func TestVerifyWithUnknownHash(t *testing.T) {
	rec := recorder{}
	v, _ := newVerifier(map[string]string{"abc123": "12345678"}, &rec)

	_, err := v.Verify(context.Background(), "zzz")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, rec.records)
}

func TestVerifyWithEmptyHash(t *testing.T) {
	rec := recorder{}
	v, r := newVerifier(map[string]string{"": "12345678"}, &rec)

	_, err := v.Verify(context.Background(), "")

	assert.ErrorIs(t, err, capture.ErrNoCapture)
	assert.Equal(t, 0, r.fetched)
	assert.Empty(t, rec.records)
}

func TestVerifyWithEmptyRoster(t *testing.T) {
	rec := recorder{}
	v, _ := newVerifier(map[string]string{}, &rec)

	_, err := v.Verify(context.Background(), "abc123")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, rec.records)
}

func TestVerifyWithAppendError(t *testing.T) {
	rec := recorder{err: fmt.Errorf("unavailable")}
	v, _ := newVerifier(map[string]string{"abc123": "12345678"}, &rec)

	result, err := v.Verify(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "12345678", result.ID)
	assert.Len(t, rec.records, 1)
}

func TestVerifyFetchesRosterForEveryRequest(t *testing.T) {
	rec := recorder{}
	v, r := newVerifier(map[string]string{"abc123": "12345678"}, &rec)

	v.Verify(context.Background(), "abc123")
	v.Verify(context.Background(), "abc123")
	v.Verify(context.Background(), "zzz")

	assert.Equal(t, 3, r.fetched)
	assert.Len(t, rec.records, 2, "repeated verifications should each record attendance")
}
