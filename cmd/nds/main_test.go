package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nds/internal/content"
	"github.com/pders01/nds/internal/shell"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

func TestVersionCommand(t *testing.T) {
	out := captureStdout(t, func() { versionCmd.Run(versionCmd, nil) })

	assert.Contains(t, out, "nds dev")
	assert.Contains(t, out, "Native Dravidian Sports")
	assert.Contains(t, out, "github.com/pders01/nds")
}

func TestGenerateConfigCommand(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configFile := filepath.Join(tmpDir, ".config", "nds", "config.toml")

	out := captureStdout(t, func() { configGenCmd.Run(configGenCmd, nil) })

	_, err := os.Stat(configFile)
	assert.NoError(t, err, "config file was not created")
	assert.Contains(t, out, "Generated default configuration at:")
}

func TestSectionsCommand(t *testing.T) {
	var buf bytes.Buffer
	sectionsCmd.SetOut(&buf)
	t.Cleanup(func() { sectionsCmd.SetOut(nil) })

	sectionsCmd.Run(sectionsCmd, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(shell.Sections()))
	assert.True(t, strings.HasPrefix(lines[0], "1  home"))
	assert.Contains(t, lines[5], "Community")
}

func TestLoadConfig_DBOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	chdir(t, tmpDir)

	dbPath = filepath.Join(tmpDir, "data", "nds.db")
	t.Cleanup(func() { dbPath = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, dbPath, cfg.Database.Path)
	assert.DirExists(t, filepath.Join(tmpDir, "data"))

	dbPath = tmpDir + "/../escape.db"
	_, err = loadConfig()
	assert.Error(t, err)
}

func testSlides(t *testing.T) []content.Slide {
	t.Helper()
	c, err := content.Default()
	require.NoError(t, err)
	return c.Slides
}

func TestSimulate_Countdown(t *testing.T) {
	var buf bytes.Buffer
	err := simulate(context.Background(), &buf, clockwork.NewRealClock(), simulation{
		Slides:           testSlides(t),
		Section:          "scoreboard",
		Duration:         1500 * time.Millisecond,
		CarouselInterval: 5 * time.Second,
		CountdownSeconds: 1,
		SwipeThreshold:   50,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "section  home")
	assert.Contains(t, out, "section  scoreboard")
	assert.Contains(t, out, "timer    00:00:01")
	assert.Contains(t, out, "timer    00:00:00")
	assert.Contains(t, out, shell.MsgEventCompleted)
	assert.Equal(t, 1, strings.Count(out, shell.MsgEventCompleted))
}

func TestSimulate_Swipes(t *testing.T) {
	slides := testSlides(t)
	var buf bytes.Buffer
	err := simulate(context.Background(), &buf, clockwork.NewRealClock(), simulation{
		Slides:           slides,
		Swipes:           []string{"left", "left", "right", "right", "right"},
		Duration:         10 * time.Millisecond,
		CarouselInterval: time.Hour,
		SwipeThreshold:   50,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "slide    2/3 "+slides[1].Title)
	assert.Contains(t, out, "slide    3/3 "+slides[2].Title)

	var order []string
	for _, line := range strings.Split(out, "\n") {
		if i := strings.Index(line, "slide    "); i >= 0 {
			order = append(order, strings.Fields(line[i:])[1])
		}
	}
	assert.Equal(t, []string{"1/3", "2/3", "3/3", "2/3", "1/3", "3/3"}, order)
}

func TestSimulate_Errors(t *testing.T) {
	base := simulation{Slides: testSlides(t), Duration: time.Millisecond, CarouselInterval: time.Second}

	bad := base
	bad.Section = "tickets"
	err := simulate(context.Background(), io.Discard, clockwork.NewRealClock(), bad)
	assert.ErrorIs(t, err, shell.ErrSectionNotFound)

	bad = base
	bad.Swipes = []string{"up"}
	err = simulate(context.Background(), io.Discard, clockwork.NewRealClock(), bad)
	assert.Error(t, err)
}

func TestSimulate_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	sim := simulation{Slides: testSlides(t), Duration: time.Hour, CarouselInterval: time.Second}
	errC := make(chan error, 1)
	go func() { errC <- simulate(ctx, io.Discard, clock, sim) }()

	cancel()
	select {
	case err := <-errC:
		if err != nil {
			assert.ErrorIs(t, err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("simulate did not return after cancel")
	}
}
