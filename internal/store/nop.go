package store

import "github.com/devdiv-tools/jobdumper/internal/model"

// Ensure NopRecorder implements model.RunRecorder.
var _ model.RunRecorder = (*NopRecorder)(nil)

// NopRecorder discards run summaries. Used when archiving is disabled.
type NopRecorder struct{}

// NewNopRecorder returns a recorder that drops everything.
func NewNopRecorder() *NopRecorder {
	return &NopRecorder{}
}

// RecordRun does nothing.
func (*NopRecorder) RecordRun(model.RunSummary) error {
	return nil
}
