package catalog

import (
	"sync"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wpilog/pkg/codec"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

type recordedOp struct {
	operation string
	success   bool
}

type fakeRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *fakeRecorder) RecordCatalogOperation(operation string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation, success})
}

func openTestCatalog(t *testing.T, rec Recorder) *Catalog {
	t.Helper()
	c, err := Open(Config{Dir: t.TempDir(), Recorder: rec})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func parsedLog(t *testing.T) *wpilog.Log {
	t.Helper()
	buf := codec.NewBuilder("match=Q12").
		Start(1, 100, "/drive/left", "double", "unit=m").
		Start(2, 100, "/arm/angle", "int64", "").
		Double(1, 110, 0.5).
		Double(1, 150, 0.75).
		Int64(2, 120, 45).
		Finish(2, 200).
		Bytes()
	l, err := wpilog.Parse(buf, wpilog.Options{})
	require.NoError(t, err)
	return l
}

func TestSummarize(t *testing.T) {
	s := Summarize("/logs/q12.wpilog", parsedLog(t))

	assert.Equal(t, "/logs/q12.wpilog", s.Path)
	assert.Equal(t, "1.0", s.Version)
	assert.Equal(t, "match=Q12", s.Metadata)
	assert.Equal(t, 2, s.Stats.Entries)
	assert.Equal(t, 3, s.Stats.DataRecords)
	require.Len(t, s.Entries, 2)

	left, ok := s.Entry("/drive/left")
	require.True(t, ok)
	assert.Equal(t, EntrySummary{
		Name:     "/drive/left",
		Type:     "double",
		Metadata: "unit=m",
		Values:   2,
		MinTS:    110,
		MaxTS:    150,
	}, left)

	_, ok = s.Entry("/missing")
	assert.False(t, ok)
}

func TestSummarize_EmptyEntry(t *testing.T) {
	buf := codec.NewBuilder("").Start(1, 0, "quiet", "boolean", "").Bytes()
	l, err := wpilog.Parse(buf, wpilog.Options{})
	require.NoError(t, err)

	s := Summarize("quiet.wpilog", l)
	e, ok := s.Entry("quiet")
	require.True(t, ok)
	assert.Zero(t, e.Values)
	assert.Zero(t, e.MinTS)
	assert.Zero(t, e.MaxTS)
}

func TestSummarize_OutOfOrderValues(t *testing.T) {
	buf := codec.NewBuilder("").
		Start(1, 0, "/arm/angle", "double", "").
		Double(1, 500, 1).
		Double(1, 120, 2).
		Double(1, 900, 3).
		Double(1, 300, 4).
		Bytes()
	l, err := wpilog.Parse(buf, wpilog.Options{})
	require.NoError(t, err)

	e, ok := Summarize("arm.wpilog", l).Entry("/arm/angle")
	require.True(t, ok)
	assert.Equal(t, 4, e.Values)
	assert.Equal(t, uint64(120), e.MinTS)
	assert.Equal(t, uint64(900), e.MaxTS)
}

func TestCatalog_AddGet(t *testing.T) {
	rec := &fakeRecorder{}
	c := openTestCatalog(t, rec)
	fixed := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	added, err := c.Add(Summarize("/logs/q12.wpilog", parsedLog(t)))
	require.NoError(t, err)
	assert.NotEqual(t, ksuid.Nil, added.ID)
	assert.Equal(t, fixed, added.AddedAt)

	got, err := c.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	byPath, err := c.Lookup("/logs/q12.wpilog")
	require.NoError(t, err)
	assert.Equal(t, added.ID, byPath.ID)

	assert.Equal(t, []recordedOp{{"add", true}, {"get", true}, {"lookup", true}}, rec.ops)
}

func TestCatalog_AddSamePathReplaces(t *testing.T) {
	c := openTestCatalog(t, nil)

	first, err := c.Add(Summary{Path: "a.wpilog", Version: "1.0"})
	require.NoError(t, err)
	second, err := c.Add(Summary{Path: "a.wpilog", Version: "1.0", Metadata: "rerun"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	all, err := c.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "rerun", all[0].Metadata)
}

func TestCatalog_ListOrder(t *testing.T) {
	c := openTestCatalog(t, nil)

	var ids []ksuid.KSUID
	for _, p := range []string{"one.wpilog", "two.wpilog", "three.wpilog"} {
		s, err := c.Add(Summary{Path: p})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	all, err := c.List()
	require.NoError(t, err)
	require.Len(t, all, 3)

	got := make([]ksuid.KSUID, len(all))
	for i, s := range all {
		got[i] = s.ID
	}
	assert.ElementsMatch(t, ids, got)
	assert.True(t, ksuid.IsSorted(got))
}

func TestCatalog_ListEmpty(t *testing.T) {
	c := openTestCatalog(t, nil)

	all, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalog_Delete(t *testing.T) {
	rec := &fakeRecorder{}
	c := openTestCatalog(t, rec)

	s, err := c.Add(Summary{Path: "gone.wpilog"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(s.ID))

	_, err = c.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Lookup("gone.wpilog")
	assert.ErrorIs(t, err, ErrNotFound)

	err = c.Delete(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, recordedOp{"delete", false}, rec.ops[len(rec.ops)-1])
}

func TestCatalog_Persistence(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(Config{Dir: dir, Sync: true})
	require.NoError(t, err)
	s, err := c.Add(Summarize("/logs/q12.wpilog", parsedLog(t)))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(Config{Dir: dir})
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Entries, got.Entries)
	assert.Equal(t, s.Stats, got.Stats)
}

func TestCatalog_Closed(t *testing.T) {
	c, err := Open(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = c.Add(Summary{Path: "x"})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.Get(ksuid.New())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.List()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Delete(ksuid.New()), ErrClosed)
}

func TestOpen_RequiresDir(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id := ksuid.New()

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("not-a-ksuid")
	assert.Error(t, err)
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte("log0"), upperBound([]byte("log/")))
	assert.Equal(t, []byte("log/"), logPrefix)
}
