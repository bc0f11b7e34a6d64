package reindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 5)
	tracker.Start()

	tracker.Update(3)
	assert.Empty(t, out.String(), "below interval, nothing reported")

	tracker.Update(5)
	assert.Contains(t, out.String(), "5/10")

	tracker.Finish()
	assert.Contains(t, out.String(), "10/10")
	assert.Contains(t, out.String(), "100.0%")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 3, 1)
	tracker.Start()

	tracker.Update(7)
	assert.Contains(t, out.String(), "3/3")
}

func TestProgressTracker_IgnoresUpdatesBeforeStart(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 3, 1)

	tracker.Update(2)
	tracker.Finish()
	assert.Empty(t, out.String())
	assert.Zero(t, tracker.Elapsed())
}
