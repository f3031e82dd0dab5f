package listing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/ogy/pool"
)

// makeTree creates files with the given names and sizes under a temp dir.
func makeTree(t *testing.T, files map[string]int) string {
	t.Helper()
	dir := t.TempDir()
	for name, size := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}
	return dir
}

func names(r *Report) []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Name
	}
	return out
}

func TestList_Basic(t *testing.T) {
	dir := makeTree(t, map[string]int{"b.txt": 2, "a.txt": 1, "c.txt": 3})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zdir"), 0o755))

	report, err := List(context.Background(), dir, Options{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt", "zdir"}, names(report))
	assert.Equal(t, 0, report.Failures())
	assert.False(t, report.TimedOut)
	assert.Equal(t, 2, report.Workers)
	assert.Equal(t, dir, report.Dir)

	for i, size := range []int64{1, 2, 3} {
		assert.Equal(t, size, report.Entries[i].Info.Size)
	}
	assert.True(t, report.Entries[3].Info.IsDir())
}

func TestList_HiddenEntries(t *testing.T) {
	dir := makeTree(t, map[string]int{".secret": 1, "visible": 1, ".config": 1})

	report, err := List(context.Background(), dir, Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, names(report))

	report, err = List(context.Background(), dir, Options{Workers: 2, ShowHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".config", ".secret", "visible"}, names(report))
}

func TestList_EmptyDirectory(t *testing.T) {
	report, err := List(context.Background(), t.TempDir(), Options{Workers: 3})
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.Equal(t, 0, report.Failures())
}

func TestList_MissingDirectory(t *testing.T) {
	_, err := List(context.Background(), filepath.Join(t.TempDir(), "gone"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestList_PerEntryFailure(t *testing.T) {
	dir := makeTree(t, map[string]int{"ok": 4})
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(dir, "dangling")))

	report, err := List(context.Background(), dir, Options{Workers: 2})
	require.NoError(t, err, "a failed lookup must not abort the listing")

	require.Len(t, report.Entries, 2)
	assert.Equal(t, "dangling", report.Entries[0].Name)
	assert.True(t, report.Entries[0].Failed())
	assert.ErrorIs(t, report.Entries[0].Err, fs.ErrNotExist)

	assert.Equal(t, "ok", report.Entries[1].Name)
	assert.False(t, report.Entries[1].Failed())
	assert.Equal(t, 1, report.Failures())
}

func TestList_ContentEquivalence(t *testing.T) {
	files := make(map[string]int)
	for i := range 64 {
		files[fmt.Sprintf("file-%02d", i)] = i * 7
	}
	dir := makeTree(t, files)
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken")))

	seq, err := ListSequential(dir, Options{})
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 5, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			par, err := List(context.Background(), dir, Options{Workers: workers})
			require.NoError(t, err)

			require.Equal(t, len(seq.Entries), len(par.Entries))
			for i := range seq.Entries {
				s, p := seq.Entries[i], par.Entries[i]
				assert.Equal(t, s.Name, p.Name)
				assert.Equal(t, s.Info, p.Info)
				assert.Equal(t, s.Failed(), p.Failed())
			}
		})
	}
}

func TestList_PreservesOrderUnderSkewedCompletion(t *testing.T) {
	dir := makeTree(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1})

	// earlier names finish last
	delays := map[string]time.Duration{"a": 40, "b": 30, "c": 20, "d": 10, "e": 0}
	opts := Options{
		Workers: 5,
		lookup: func(path string) (FileInfo, error) {
			time.Sleep(delays[filepath.Base(path)] * time.Millisecond)
			return Lookup(path)
		},
	}

	report, err := List(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(report))
}

func TestList_Timeout(t *testing.T) {
	dir := makeTree(t, map[string]int{"fast": 1, "slow": 1, "zqueued": 1})

	release := make(chan struct{})
	defer close(release)

	opts := Options{
		Workers: 1,
		Timeout: 50 * time.Millisecond,
		lookup: func(path string) (FileInfo, error) {
			if filepath.Base(path) == "slow" {
				<-release
			}
			return Lookup(path)
		},
	}

	start := time.Now()
	report, err := List(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "List waited for a stuck lookup")

	assert.True(t, report.TimedOut)
	require.Len(t, report.Entries, 3)
	assert.NoError(t, report.Entries[0].Err)
	assert.ErrorIs(t, report.Entries[1].Err, context.DeadlineExceeded)
	assert.ErrorIs(t, report.Entries[2].Err, context.DeadlineExceeded)
	assert.Equal(t, 2, report.Failures())
}

func TestList_CancelledContext(t *testing.T) {
	dir := makeTree(t, map[string]int{"a": 1})

	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := List(ctx, dir, Options{
		Workers: 1,
		lookup: func(path string) (FileInfo, error) {
			<-release
			return Lookup(path)
		},
	})
	require.Error(t, err, "an interrupted listing is not a timeout")
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, report)
}

func TestList_OnStart(t *testing.T) {
	dir := makeTree(t, map[string]int{"a": 1, "b": 1, ".c": 1})

	var total atomic.Int32
	total.Store(-1)
	var doneBeforeStart atomic.Int32
	var started atomic.Bool

	report, err := List(context.Background(), dir, Options{
		Workers: 2,
		OnStart: func(n int) {
			started.Store(true)
			total.Store(int32(n))
		},
		OnEntryDone: func(error) {
			if !started.Load() {
				doneBeforeStart.Add(1)
			}
		},
		lookup: func(path string) (FileInfo, error) {
			// hold lookups until the total is known
			for !started.Load() {
				time.Sleep(time.Millisecond)
			}
			return Lookup(path)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(len(report.Entries)), total.Load())
	assert.Equal(t, int32(2), total.Load(), "hidden entries are not counted")
	assert.Zero(t, doneBeforeStart.Load())
}

func TestList_PoolInitFailure(t *testing.T) {
	dir := makeTree(t, map[string]int{"a": 1})

	_, err := List(context.Background(), dir, Options{
		Workers: 2,
		extraOpts: []pool.Option{
			pool.WithWorkerInit(func(int) error { return errors.New("no cores left") }),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pool.ErrPoolInit)
	assert.Contains(t, err.Error(), "start lookup pool")
}

func TestList_OnEntryDone(t *testing.T) {
	dir := makeTree(t, map[string]int{"a": 1, "b": 1, "c": 1})
	require.NoError(t, os.Symlink(filepath.Join(dir, "x"), filepath.Join(dir, "d")))

	var done, failed atomic.Int32
	_, err := List(context.Background(), dir, Options{
		Workers: 2,
		OnEntryDone: func(err error) {
			done.Add(1)
			if err != nil {
				failed.Add(1)
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), done.Load())
	assert.Equal(t, int32(1), failed.Load())
}

func TestList_RateLimited(t *testing.T) {
	dir := makeTree(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1})

	start := time.Now()
	report, err := List(context.Background(), dir, Options{Workers: 4, Rate: 20})
	require.NoError(t, err)
	assert.Len(t, report.Entries, 4)
	// burst covers all four
	assert.Less(t, time.Since(start), time.Second)
}

func TestListSequential(t *testing.T) {
	dir := makeTree(t, map[string]int{"y": 1, "x": 2, ".h": 3})

	report, err := ListSequential(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names(report))
	assert.Equal(t, 1, report.Workers)
	assert.Equal(t, filepath.Join(dir, "x"), report.Entries[0].Path)

	got := names(report)
	assert.True(t, sort.StringsAreSorted(got))
}

// findTree builds:
//
//	Notes.txt
//	main.go
//	docs/
//	  notes-old.md
//	  deep/
//	    NOTES.bak
func findTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "deep"), 0o755))
	for _, name := range []string{
		"Notes.txt",
		"main.go",
		filepath.Join("docs", "notes-old.md"),
		filepath.Join("docs", "deep", "NOTES.bak"),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return dir
}

func TestFind(t *testing.T) {
	dir := findTree(t)

	t.Run("direct children only", func(t *testing.T) {
		report, err := Find(context.Background(), dir, "notes", false, Options{Workers: 2})
		require.NoError(t, err)

		assert.Equal(t, []string{"Notes.txt"}, names(report))
		assert.Equal(t, filepath.Join(dir, "Notes.txt"), report.Entries[0].Path)
		assert.True(t, report.ShowPaths)
		assert.Equal(t, int64(1), report.Entries[0].Info.Size)
	})

	t.Run("recursive ignores case", func(t *testing.T) {
		report, err := Find(context.Background(), dir, "NoTeS", true, Options{Workers: 2})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"Notes.txt", "notes-old.md", "NOTES.bak"}, names(report))
		for _, e := range report.Entries {
			assert.False(t, e.Failed(), e.Name)
			assert.Equal(t, e.Name, filepath.Base(e.Path))
		}
	})

	t.Run("directories match too", func(t *testing.T) {
		report, err := Find(context.Background(), dir, "dee", true, Options{Workers: 1})
		require.NoError(t, err)

		require.Len(t, report.Entries, 1)
		assert.Equal(t, filepath.Join(dir, "docs", "deep"), report.Entries[0].Path)
		assert.True(t, report.Entries[0].Info.IsDir())
	})

	t.Run("no match", func(t *testing.T) {
		report, err := Find(context.Background(), dir, "missing", true, Options{})
		require.NoError(t, err)
		assert.Empty(t, report.Entries)
	})

	t.Run("counts matches before awaiting", func(t *testing.T) {
		var total atomic.Int32
		_, err := Find(context.Background(), dir, "notes", true, Options{
			OnStart: func(n int) { total.Store(int32(n)) },
		})
		require.NoError(t, err)
		assert.Equal(t, int32(3), total.Load())
	})
}

func TestFind_MissingRoot(t *testing.T) {
	_, err := Find(context.Background(), filepath.Join(t.TempDir(), "gone"), "x", true, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFind_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Find(ctx, findTree(t), "notes", true, Options{})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
}

func TestFind_FailedLookupIsRecorded(t *testing.T) {
	dir := findTree(t)

	report, err := Find(context.Background(), dir, "notes", false, Options{
		lookup: func(path string) (FileInfo, error) {
			return FileInfo{}, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrPermission}
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.ErrorIs(t, report.Entries[0].Err, fs.ErrPermission)
	assert.Equal(t, 1, report.Failures())
}
