package isolate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/vocal-isolator/internal/config"
	"github.com/handiism/vocal-isolator/internal/ffmpeg"
	ioutils "github.com/handiism/vocal-isolator/internal/io"
	"github.com/handiism/vocal-isolator/internal/model"
)

const wantFilter = "silenceremove=stop_periods=-1:stop_duration=1:stop_threshold=-50dB"

// scriptedPrompter answers prompts from a queue and records what it was asked.
type scriptedPrompter struct {
	answers []string
	titles  []string
	choices [][]Choice
	err     error
}

func (p *scriptedPrompter) Choose(_ context.Context, title string, choices []Choice) (string, error) {
	p.titles = append(p.titles, title)
	p.choices = append(p.choices, choices)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return "", errors.New("unexpected prompt: " + title)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// fakeProcessor writes a stand-in output instead of running ffmpeg.
type fakeProcessor struct {
	mu    sync.Mutex
	reqs  []ffmpeg.Request
	fail  error
	block bool
}

func (f *fakeProcessor) Start(ctx context.Context, req ffmpeg.Request) (*ffmpeg.Job, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	fail, block := f.fail, f.block
	f.mu.Unlock()

	return ffmpeg.StartJob(func() error {
		if block {
			<-ctx.Done()
			return ctx.Err()
		}
		if fail != nil {
			return fail
		}
		return os.WriteFile(req.Output, []byte("vocals"), 0644)
	}), nil
}

func (f *fakeProcessor) requests() []ffmpeg.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ffmpeg.Request(nil), f.reqs...)
}

type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) add(e ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) has(level ProgressLevel, message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))
}

// newTestManager builds a manager over a base dir holding
// ITZY/Yeji/train with Track1.mp3, Track2.mp3 and an instrumental.
func newTestManager(t *testing.T, prompter Prompter, proc Processor, mutate func(*config.Settings)) (*Manager, model.Layout, *eventLog) {
	t.Helper()

	base := t.TempDir()
	train := filepath.Join(base, "ITZY", "Yeji", "train")
	touch(t, filepath.Join(train, "Track1.mp3"))
	touch(t, filepath.Join(train, "Track2.mp3"))
	touch(t, filepath.Join(train, "Track1_Instrumental.mp3"))

	settings := config.DefaultSettings()
	settings.ModifyTags = false
	if mutate != nil {
		mutate(settings)
	}
	layout := settings.ToLayout(base)
	events := &eventLog{}

	m := NewManager(settings, config.DefaultCatalog(), layout, Deps{
		Prompter:   prompter,
		Processor:  proc,
		OnProgress: events.add,
	})
	return m, layout, events
}

func TestRun_SingleSong(t *testing.T) {
	prompter := &scriptedPrompter{answers: []string{"ITZY", "Yeji", "Track1.mp3"}}
	proc := &fakeProcessor{}
	m, layout, events := newTestManager(t, prompter, proc, nil)

	report, err := m.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{GroupPrompt, "Choose a member from ITZY", SongPrompt}, prompter.titles)

	reqs := proc.requests()
	require.Len(t, reqs, 1)
	wantIn := filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Track1.mp3")
	wantOut := filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals", "Track1_Isolated_Vocals.mp3")
	assert.Equal(t, wantIn, reqs[0].Input)
	assert.Equal(t, wantOut, reqs[0].Output)
	assert.Equal(t, []string{wantFilter}, reqs[0].Filters)

	require.Len(t, report.Results, 1)
	assert.Equal(t, wantOut, report.Results[0].Output)
	assert.EqualValues(t, len("vocals"), report.Results[0].Size)
	assert.FileExists(t, wantOut)
	assert.True(t, events.has(LevelSuccess, "Silence removed and saved to: "+wantOut))
}

func TestRun_ChoicesFollowCatalog(t *testing.T) {
	prompter := &scriptedPrompter{answers: []string{"IVE", "Gaeul"}}
	m, _, _ := newTestManager(t, prompter, &fakeProcessor{}, nil)

	_, err := m.Run(context.Background(), Options{})
	require.ErrorIs(t, err, ErrMissingTrainingDir)

	require.Len(t, prompter.choices, 2)
	var groups []string
	for _, c := range prompter.choices[0] {
		groups = append(groups, c.Value)
	}
	assert.Equal(t, []string{"ITZY", "IVE"}, groups)
	assert.Equal(t, "5 members", prompter.choices[0][0].Detail)

	var members []string
	for _, c := range prompter.choices[1] {
		members = append(members, c.Value)
	}
	assert.Equal(t, []string{"Gaeul", "Yujin", "Rei", "Wonyoung", "Liz", "Leeseo"}, members)
}

func TestRun_SongChoicesExcludeInstrumentals(t *testing.T) {
	prompter := &scriptedPrompter{answers: []string{"Track2.mp3"}}
	m, _, _ := newTestManager(t, prompter, &fakeProcessor{}, nil)

	_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji"})
	require.NoError(t, err)

	require.Len(t, prompter.choices, 1)
	var songs []string
	for _, c := range prompter.choices[0] {
		songs = append(songs, c.Value)
	}
	assert.Equal(t, []string{"Track1.mp3", "Track2.mp3"}, songs)
}

func TestRun_MissingTrainingDir(t *testing.T) {
	proc := &fakeProcessor{}
	m, layout, events := newTestManager(t, nil, proc, nil)

	report, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Lia"})
	require.ErrorIs(t, err, ErrMissingTrainingDir)
	assert.Nil(t, report)
	assert.Empty(t, proc.requests())

	dir := filepath.Join(layout.BaseDir, "ITZY", "Lia", "train")
	assert.True(t, events.has(LevelWarning, "Warning: Directory does not exist: "+dir))
	assert.NoDirExists(t, filepath.Join(layout.BaseDir, "ITZY", "Lia", "train", "Isolated_Vocals"))
}

func TestRun_NoSongs(t *testing.T) {
	proc := &fakeProcessor{}
	m, layout, events := newTestManager(t, nil, proc, nil)
	touch(t, filepath.Join(layout.BaseDir, "ITZY", "Lia", "train", "Song_Instrumental.mp3"))
	touch(t, filepath.Join(layout.BaseDir, "ITZY", "Lia", "train", "notes.txt"))

	_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Lia"})
	require.ErrorIs(t, err, ErrNoSongs)
	assert.Empty(t, proc.requests())
	assert.True(t, events.has(LevelError, "No songs found in the directory."))
}

func TestRun_ProcessingFailure(t *testing.T) {
	perr := &ffmpeg.ProcessError{Tool: "ffmpeg", ExitCode: 1, Stderr: "Invalid data found when processing input"}
	proc := &fakeProcessor{fail: perr}
	m, _, events := newTestManager(t, nil, proc, nil)

	report, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"})

	var got *ffmpeg.ProcessError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 1, report.Failed())
	assert.True(t, IsReported(err))
	assert.True(t, events.has(LevelError, "Error occurred: Invalid data found when processing input"))
}

func TestRun_RepeatOverwritesOutput(t *testing.T) {
	proc := &fakeProcessor{}
	m, layout, _ := newTestManager(t, nil, proc, nil)
	opts := Options{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"}

	_, err := m.Run(context.Background(), opts)
	require.NoError(t, err)
	_, err = m.Run(context.Background(), opts)
	require.NoError(t, err)

	reqs := proc.requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0], reqs[1])

	outputs, err := ioutils.ListOutputs(filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals"), layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"Track1_Isolated_Vocals.mp3"}, outputs)
}

func TestRun_All(t *testing.T) {
	proc := &fakeProcessor{}
	m, _, events := newTestManager(t, nil, proc, nil)

	report, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", All: true})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "Track1.mp3", report.Results[0].Selection.Song)
	assert.Equal(t, "Track2.mp3", report.Results[1].Selection.Song)
	assert.Len(t, proc.requests(), 2)
	assert.True(t, events.has(LevelSuccess, "Processed 2 songs for Yeji"))
}

func TestRun_UnknownSelections(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"group", Options{Group: "TWICE"}, ErrUnknownGroup},
		{"member", Options{Group: "ITZY", Member: "Wonyoung"}, ErrUnknownMember},
		{"song", Options{Group: "ITZY", Member: "Yeji", Song: "Track1_Instrumental.mp3"}, ErrUnknownSong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			m, _, _ := newTestManager(t, nil, proc, nil)

			_, err := m.Run(context.Background(), tt.opts)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, proc.requests())
		})
	}
}

func TestRun_NoPrompter(t *testing.T) {
	m, _, _ := newTestManager(t, nil, &fakeProcessor{}, nil)

	_, err := m.Run(context.Background(), Options{Group: "ITZY"})
	require.ErrorIs(t, err, ErrInteractiveRequired)
}

func TestRun_PromptAborted(t *testing.T) {
	proc := &fakeProcessor{}
	m, _, _ := newTestManager(t, &scriptedPrompter{err: ErrAborted}, proc, nil)

	_, err := m.Run(context.Background(), Options{})
	require.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, proc.requests())
}

func TestRun_DryRun(t *testing.T) {
	proc := &fakeProcessor{}
	m, layout, _ := newTestManager(t, nil, proc, nil)

	report, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", All: true, DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	require.Len(t, report.Requests, 2)
	assert.Equal(t, []string{wantFilter}, report.Requests[0].Filters)
	assert.Empty(t, proc.requests())
	assert.NoDirExists(t, filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals"))
}

func TestRun_OutputDirLocked(t *testing.T) {
	proc := &fakeProcessor{}
	m, layout, _ := newTestManager(t, nil, proc, nil)

	outDir := filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals")
	require.NoError(t, ioutils.EnsureDir(outDir))
	lock, err := ioutils.LockDir(outDir)
	require.NoError(t, err)
	defer lock.Unlock()

	_, err = m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"})
	require.ErrorIs(t, err, ioutils.ErrDirLocked)
	assert.Empty(t, proc.requests())
}

func TestRun_OutputDirBlocked(t *testing.T) {
	proc := &fakeProcessor{}
	m, layout, _ := newTestManager(t, nil, proc, nil)
	touch(t, filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals"))

	_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"})
	require.Error(t, err)
	assert.Empty(t, proc.requests())
}

func TestRun_Playlist(t *testing.T) {
	m, layout, _ := newTestManager(t, nil, &fakeProcessor{}, func(s *config.Settings) {
		s.CreatePlaylist = true
	})

	report, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", All: true})
	require.NoError(t, err)

	want := filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals", "Isolated_Vocals.m3u")
	assert.Equal(t, want, report.Playlist)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "#EXTM3U\n#PLAYLIST:ITZY Yeji\n"))
	assert.Contains(t, content, "Track1_Isolated_Vocals.mp3\n")
	assert.Contains(t, content, "Track2_Isolated_Vocals.mp3\n")
}

func TestRun_AbortWhileWaiting(t *testing.T) {
	proc := &fakeProcessor{block: true}
	m, _, _ := newTestManager(t, nil, proc, nil)
	m.wait = func(ctx context.Context, _ string, job *ffmpeg.Job) error {
		return ErrAborted
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"})
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrAborted)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the wait was aborted")
	}
}

func TestReport_Err(t *testing.T) {
	boom := errors.New("boom")
	r := &Report{Results: []Result{{}, {Err: boom}, {}}}
	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, 1, r.Failed())

	assert.NoError(t, (&Report{Results: []Result{{}}}).Err())
}

// uninstalledProcessor reports its tool as missing.
type uninstalledProcessor struct {
	fakeProcessor
}

func (p *uninstalledProcessor) LookPath() (string, error) {
	return "", ffmpeg.ErrToolNotInstalled
}

func TestRun_ToolCheckedAfterSongChoice(t *testing.T) {
	t.Run("missing training dir wins", func(t *testing.T) {
		m, _, _ := newTestManager(t, nil, &uninstalledProcessor{}, nil)

		_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Lia"})
		require.ErrorIs(t, err, ErrMissingTrainingDir)
	})

	t.Run("nothing written without the tool", func(t *testing.T) {
		proc := &uninstalledProcessor{}
		m, layout, events := newTestManager(t, nil, proc, nil)

		_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", Song: "Track1.mp3"})
		require.ErrorIs(t, err, ffmpeg.ErrToolNotInstalled)
		assert.True(t, IsReported(err))
		assert.Empty(t, proc.requests())
		assert.NoDirExists(t, filepath.Join(layout.BaseDir, "ITZY", "Yeji", "train", "Isolated_Vocals"))
		assert.True(t, events.has(LevelError, "Error occurred: "+ffmpeg.ErrToolNotInstalled.Error()))
	})

	t.Run("dry run skips the check", func(t *testing.T) {
		m, _, _ := newTestManager(t, nil, &uninstalledProcessor{}, nil)

		_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Yeji", All: true, DryRun: true})
		require.NoError(t, err)
	})
}

func TestIsReported(t *testing.T) {
	m, _, _ := newTestManager(t, nil, &fakeProcessor{}, nil)

	_, err := m.Run(context.Background(), Options{Group: "ITZY", Member: "Lia"})
	assert.True(t, IsReported(err))

	_, err = m.Run(context.Background(), Options{Group: "TWICE"})
	assert.False(t, IsReported(err))
	assert.False(t, IsReported(nil))
}
