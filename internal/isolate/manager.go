package isolate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/vocal-isolator/internal/audio"
	"github.com/handiism/vocal-isolator/internal/config"
	"github.com/handiism/vocal-isolator/internal/ffmpeg"
	ioutils "github.com/handiism/vocal-isolator/internal/io"
	"github.com/handiism/vocal-isolator/internal/model"
)

// Prompt titles shown to the user.
const (
	GroupPrompt = "Choose a group:"
	SongPrompt  = "Choose a song to isolate vocals:"
)

// MemberPrompt returns the member prompt title for group.
func MemberPrompt(group string) string {
	return fmt.Sprintf("Choose a member from %s", group)
}

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update from the flow.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Choice is one option of a single-choice prompt.
type Choice struct {
	// Value is returned when the choice is picked.
	Value string

	// Detail is an optional second line shown under Value.
	Detail string
}

// Prompter asks the user to pick exactly one of choices.
// No free-form entry is allowed; the returned value is one of the Values.
type Prompter interface {
	Choose(ctx context.Context, title string, choices []Choice) (string, error)
}

// Processor starts one ffmpeg run. *ffmpeg.Runner implements it.
type Processor interface {
	Start(ctx context.Context, req ffmpeg.Request) (*ffmpeg.Job, error)
}

// ToolChecker is implemented by processors that can tell whether their
// external tool is installed. Run checks it once a song has been chosen,
// before anything is written.
type ToolChecker interface {
	LookPath() (string, error)
}

// WaitFunc blocks until job is done. label describes the work for display.
type WaitFunc func(ctx context.Context, label string, job *ffmpeg.Job) error

// Deps holds the collaborators of a Manager.
type Deps struct {
	// Prompter answers the selection prompts. It may be nil when every
	// choice is given in Options.
	Prompter Prompter

	// Processor runs ffmpeg.
	Processor Processor

	// Wait is used for single-song runs. Nil means job.Wait.
	Wait WaitFunc

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// OnProgress receives user-facing progress events.
	OnProgress func(ProgressEvent)
}

// Options preselects choices and switches modes for one Run.
type Options struct {
	Group  string
	Member string
	Song   string

	// All processes every eligible song instead of prompting for one.
	All bool

	// DryRun stops before creating the output folder or starting ffmpeg.
	DryRun bool
}

// Result is the outcome for one song.
type Result struct {
	Selection model.Selection
	Input     string
	Output    string
	Size      int64
	Duration  time.Duration
	Skipped   bool
	Err       error
}

// Report is the outcome of one Run.
type Report struct {
	Group     string
	Member    string
	OutputDir string
	Playlist  string
	Results   []Result
	DryRun    bool
	Requests  []ffmpeg.Request
}

// Err joins the errors of all failed results.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Failed returns the number of failed results.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Manager coordinates selection and dispatch.
type Manager struct {
	settings  *config.Settings
	catalog   *model.Catalog
	layout    model.Layout
	filter    string
	prompter  Prompter
	processor Processor
	wait      WaitFunc
	tagger    *audio.Tagger
	playlist  *audio.PlaylistCreator
	logger    *slog.Logger

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, catalog *model.Catalog, layout model.Layout, deps Deps) *Manager {
	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wait := deps.Wait
	if wait == nil {
		wait = waitJob
	}

	return &Manager{
		settings:   settings,
		catalog:    catalog,
		layout:     layout,
		filter:     settings.ToSilenceRemove().String(),
		prompter:   deps.Prompter,
		processor:  deps.Processor,
		wait:       wait,
		tagger:     audio.NewTagger(tagCfg),
		playlist:   audio.NewPlaylistCreator(audio.ParsePlaylistFormat(settings.PlaylistFormat), settings.M3UExtended),
		logger:     logger,
		onProgress: deps.OnProgress,
	}
}

// Filter returns the ffmpeg filter directive used for every run.
func (m *Manager) Filter() string {
	return m.filter
}

// Run executes the flow once.
//
// The returned error classifies the outcome: ErrMissingTrainingDir,
// ErrNoSongs, ErrAborted, ErrUnknown*, or the processing failure(s).
// Errors already shown as progress events satisfy IsReported.
// The report is nil when the flow stopped before any song was chosen.
func (m *Manager) Run(ctx context.Context, opts Options) (*Report, error) {
	sel, err := m.selectMember(ctx, opts)
	if err != nil {
		return nil, err
	}

	trainingDir := sel.TrainingDir(m.layout)
	if !ioutils.DirExists(trainingDir) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Warning: Directory does not exist: %s", trainingDir), Level: LevelWarning})
		return nil, reported(fmt.Errorf("%s: %w", trainingDir, ErrMissingTrainingDir))
	}

	songs, err := ioutils.ListEligibleSongs(trainingDir, m.layout)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		m.progress(ProgressEvent{Message: "No songs found in the directory.", Level: LevelError})
		return nil, reported(fmt.Errorf("%s: %w", trainingDir, ErrNoSongs))
	}
	m.logger.Debug("eligible songs", "dir", trainingDir, "count", len(songs))

	targets := songs
	if !opts.All {
		song, err := m.selectSong(ctx, sel, songs, opts.Song)
		if err != nil {
			return nil, err
		}
		targets = []string{song}
	}

	report := &Report{
		Group:     sel.Group,
		Member:    sel.Member,
		OutputDir: sel.OutputDir(m.layout),
		DryRun:    opts.DryRun,
	}

	if opts.DryRun {
		for _, song := range targets {
			s := sel.WithSong(song)
			req := m.request(s)
			report.Requests = append(report.Requests, req)
			report.Results = append(report.Results, Result{Selection: s, Input: req.Input, Output: req.Output, Skipped: true})
			m.progress(ProgressEvent{Message: fmt.Sprintf("Would remove silence: %s -> %s", req.Input, req.Output), Level: LevelInfo})
		}
		return report, nil
	}

	if checker, ok := m.processor.(ToolChecker); ok {
		path, err := checker.LookPath()
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error occurred: %v", err), Level: LevelError})
			return nil, reported(err)
		}
		m.logger.Debug("using tool", "path", path)
	}

	if err := ioutils.EnsureDir(report.OutputDir); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return nil, reported(err)
	}
	lock, err := ioutils.LockDir(report.OutputDir)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error occurred: %v", err), Level: LevelError})
		return nil, reported(err)
	}
	defer lock.Unlock()

	if opts.All {
		report.Results = m.processAll(ctx, sel, targets)
	} else {
		report.Results = []Result{m.processSong(ctx, sel.WithSong(targets[0]), m.wait)}
	}
	for _, res := range report.Results {
		report.Requests = append(report.Requests, m.request(res.Selection))
	}

	if m.settings.CreatePlaylist {
		report.Playlist = m.writePlaylist(sel, report.OutputDir)
	}

	return report, reported(report.Err())
}

func (m *Manager) selectMember(ctx context.Context, opts Options) (model.Selection, error) {
	group := opts.Group
	if group == "" {
		groups := m.catalog.GroupNames()
		choices := make([]Choice, len(groups))
		for i, g := range groups {
			members, _ := m.catalog.Members(g)
			choices[i] = Choice{Value: g, Detail: fmt.Sprintf("%d members", len(members))}
		}
		var err error
		if group, err = m.choose(ctx, GroupPrompt, choices); err != nil {
			return model.Selection{}, err
		}
	}
	members, ok := m.catalog.Members(group)
	if !ok {
		return model.Selection{}, fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}

	member := opts.Member
	if member == "" {
		choices := make([]Choice, len(members))
		for i, name := range members {
			choices[i] = Choice{Value: name}
		}
		var err error
		if member, err = m.choose(ctx, MemberPrompt(group), choices); err != nil {
			return model.Selection{}, err
		}
	}
	if !m.catalog.HasMember(group, member) {
		return model.Selection{}, fmt.Errorf("%q in %s: %w", member, group, ErrUnknownMember)
	}

	return model.Selection{Group: group, Member: member}, nil
}

func (m *Manager) selectSong(ctx context.Context, sel model.Selection, songs []string, preset string) (string, error) {
	if preset != "" {
		for _, song := range songs {
			if song == preset {
				return song, nil
			}
		}
		return "", fmt.Errorf("%q in %s: %w", preset, sel.TrainingDir(m.layout), ErrUnknownSong)
	}

	choices := make([]Choice, len(songs))
	for i, song := range songs {
		choices[i] = Choice{Value: song, Detail: m.tagger.Describe(sel.WithSong(song).InputPath(m.layout))}
	}
	return m.choose(ctx, SongPrompt, choices)
}

func (m *Manager) choose(ctx context.Context, title string, choices []Choice) (string, error) {
	if m.prompter == nil {
		return "", fmt.Errorf("%s: %w", title, ErrInteractiveRequired)
	}

	value, err := m.prompter.Choose(ctx, title, choices)
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if c.Value == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("prompter returned %q which was not offered", value)
}

func (m *Manager) request(sel model.Selection) ffmpeg.Request {
	return ffmpeg.Request{
		Input:   sel.InputPath(m.layout),
		Output:  sel.OutputPath(m.layout),
		Filters: []string{m.filter},
	}
}

// processSong runs ffmpeg for one song and waits for it. The job is
// always finished when this returns, even if wait gave up early.
func (m *Manager) processSong(ctx context.Context, sel model.Selection, wait WaitFunc) Result {
	req := m.request(sel)
	result := Result{Selection: sel, Input: req.Input, Output: req.Output}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Removing silence: %s", filepath.Base(req.Input)), Level: LevelVerbose})

	job, err := m.processor.Start(jobCtx, req)
	if err != nil {
		result.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error occurred: %v", err), Level: LevelError})
		return result
	}

	err = wait(jobCtx, sel.Song, job)
	if err != nil {
		cancel()
		<-job.Done()
	}
	result.Duration = job.Duration()
	if err != nil {
		result.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error occurred: %v", errorMessage(err)), Level: LevelError})
		return result
	}

	result.Size = ioutils.FileSize(req.Output)
	if err := m.tagger.TagIsolated(req.Output, sel, m.layout, m.filter); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(req.Output), err), Level: LevelWarning})
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Silence removed and saved to: %s", req.Output), Level: LevelSuccess})
	return result
}

// processAll runs every song with bounded concurrency. A failed song does
// not stop the others.
func (m *Manager) processAll(ctx context.Context, sel model.Selection, songs []string) []Result {
	results := make([]Result, len(songs))

	var g errgroup.Group
	g.SetLimit(m.settings.MaxConcurrentJobs)

	for i, song := range songs {
		g.Go(func() error {
			results[i] = m.processSong(ctx, sel.WithSong(song), waitJob)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Processed %d songs for %s", len(songs), sel.Member), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s, %d of %d songs failed", sel.Member, failed, len(songs)), Level: LevelWarning})
	}
	return results
}

// writePlaylist refreshes the playlist of every processed song in dir and
// returns its path, or "" when it could not be written.
func (m *Manager) writePlaylist(sel model.Selection, dir string) string {
	outputs, err := ioutils.ListOutputs(dir, m.layout)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return ""
	}

	entries := make([]audio.PlaylistEntry, len(outputs))
	for i, name := range outputs {
		path := filepath.Join(dir, name)
		entries[i] = audio.PlaylistEntry{Path: path, Title: m.tagger.Title(path)}
	}

	path := filepath.Join(dir, m.layout.OutputDir+m.playlist.Format().Extension())
	content := m.playlist.CreatePlaylist(fmt.Sprintf("%s %s", sel.Group, sel.Member), entries)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return ""
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s (%d tracks)", path, len(entries)), Level: LevelVerbose})
	return path
}

func (m *Manager) progress(event ProgressEvent) {
	m.logger.Debug(event.Message, "level", int(event.Level))
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}

func waitJob(_ context.Context, _ string, job *ffmpeg.Job) error {
	return job.Wait()
}

// errorMessage prefers the tool's own description of a failure.
func errorMessage(err error) string {
	var perr *ffmpeg.ProcessError
	if errors.As(err, &perr) && perr.Stderr != "" {
		return perr.Stderr
	}
	return strings.TrimSpace(err.Error())
}
