package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o644))
}

func TestDefaultWithoutFile(t *testing.T) {
	s := NewStore(t.TempDir())
	p, err := s.Load(DefaultName)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Sensitivity)
	assert.Equal(t, 0.1, p.DeadZone)
	assert.Equal(t, 1.5, p.Scroll.VerticalSpeed)
}

func TestMissingNamedProfileIsError(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Load("gaming")
	assert.Error(t, err)
}

func TestLoadNamedProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "gaming", `
sensitivity: 2.0
dead_zone: 0.15
scroll:
  vertical_speed: 3.0
  reverse_vertical: true
accel:
  - {in: 0.0, out: 0.5}
  - {in: 1.0, out: 2.0}
`)
	s := NewStore(dir)
	p, err := s.Load("gaming")
	require.NoError(t, err)
	assert.Equal(t, "gaming", p.Name)
	assert.Equal(t, 2.0, p.Sensitivity)
	assert.Equal(t, 0.15, p.DeadZone)
	assert.Equal(t, 3.0, p.Scroll.VerticalSpeed)
	assert.True(t, p.Scroll.ReverseVertical)
	// Unset fields keep their defaults.
	assert.Equal(t, 1.5, p.Scroll.HorizontalSpeed)
	require.Len(t, p.Accel, 2)
	assert.Equal(t, 0.5, p.Accel[0].Out)
}

func TestOutOfRangeValuesClamped(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "broken", `
sensitivity: 50
dead_zone: -0.5
precision: 3
`)
	s := NewStore(dir)
	p, err := s.Load("broken")
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Sensitivity)
	assert.Equal(t, 0.0, p.DeadZone)
	assert.Equal(t, 1.0, p.Precision)
}

func TestOversizedDeadZoneClampedBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "sloppy", `
dead_zone: 0.5
`)
	s := NewStore(dir)
	p, err := s.Load("sloppy")
	require.NoError(t, err)
	assert.Equal(t, maxDeadZone, p.DeadZone)
	assert.Less(t, p.DeadZone, 0.3)
}

func TestAccelCurveSortedByInput(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "curved", `
accel:
  - {in: 1.0, out: 2.0}
  - {in: 0.2, out: 1.0}
`)
	s := NewStore(dir)
	p, err := s.Load("curved")
	require.NoError(t, err)
	require.Len(t, p.Accel, 2)
	assert.Equal(t, 0.2, p.Accel[0].In)

	m := p.Motion()
	assert.InDelta(t, 1.5, m.Accel.At(0.6), 1e-9)
}
