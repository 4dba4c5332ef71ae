package analyze

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/untangle/internal/config"
	"github.com/roach88/untangle/internal/op"
	"github.com/roach88/untangle/internal/testutil"
	"github.com/roach88/untangle/internal/trace"
)

func TestAnalyzer_WriterThenReader(t *testing.T) {
	tr := testutil.NewTrace().
		Open(100, "/a", "O_WRONLY", 3).
		Write(100, 3, 5).
		Close(100, 3).
		Open(200, "/a", "O_RDONLY", 3).
		Read(200, 3, 5).
		Close(200, 3)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	g := res.Graph()
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, g.HasEdge(100, 200))

	s := res.NewScheduler()
	b1, err := s.NextBatch()
	require.NoError(t, err)
	assert.Equal(t, []int{100}, b1)

	b2, err := s.NextBatch()
	require.NoError(t, err)
	assert.Equal(t, []int{200}, b2)

	done, err := s.NextBatch()
	require.NoError(t, err)
	assert.Empty(t, done)
}

func TestAnalyzer_ConcurrentReadersShareBatch(t *testing.T) {
	tr := testutil.NewTrace().
		Open(1, "/shared", "O_RDONLY", 3).
		Read(1, 3, 10).
		Open(2, "/shared", "O_RDONLY", 3).
		Read(2, 3, 10).
		Close(1, 3).
		Close(2, 3)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Graph().EdgeCount())

	batches, err := res.NewScheduler().Drain()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}}, batches)
}

func TestAnalyzer_ExistingFiles(t *testing.T) {
	tr := testutil.NewTrace().
		Open(1, "/first", "O_WRONLY|O_CREAT", 3).
		Close(1, 3).
		OpenErr(1, "/ghost", "O_RDONLY", "ENOENT").
		Stat(2, "/etc/hosts").
		Open(2, "/first", "O_RDONLY", 4).
		Close(2, 4)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	want := []string{"/first", "/ghost", "/etc/hosts"}
	assert.Equal(t, want, res.ExistingFiles(),
		"first-seen order; paths with only failed accesses included")

	// Draining a scheduler must not disturb the path set.
	_, err = res.NewScheduler().Drain()
	require.NoError(t, err)
	assert.Equal(t, want, res.ExistingFiles())
}

func TestAnalyzer_FailedAccessOrdersNothing(t *testing.T) {
	tr := testutil.NewTrace().
		OpenErr(1, "/f", "O_WRONLY", "EACCES").
		Open(2, "/f", "O_RDONLY", 3).
		Read(2, 3, 1).
		Close(2, 3)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Graph().EdgeCount())
	assert.Contains(t, res.ExistingFiles(), "/f")
}

func TestAnalyzer_UnresolvedDescriptorExcluded(t *testing.T) {
	// Both pids write through descriptors inherited from an untraced
	// parent. The targets are unknown, so no edge can be justified.
	tr := testutil.NewTrace().
		Write(1, 7, 5).
		Write(2, 7, 5)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Graph().EdgeCount())
	assert.Empty(t, res.ExistingFiles())

	// The operations themselves stay in the process logs.
	p, ok := res.Process(1)
	require.True(t, ok)
	require.Len(t, p.Ops, 1)
	assert.Equal(t, "<unresolved:fd=7>", p.Ops[0].Target)
}

func TestAnalyzer_MetadataOnlyNeverConflicts(t *testing.T) {
	tr := testutil.NewTrace().
		Open(1, "/f", "O_WRONLY", 3).
		Write(1, 3, 4).
		Close(1, 3).
		Stat(2, "/f")

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Graph().EdgeCount())
}

func TestAnalyzer_RenameOrdersBothEnds(t *testing.T) {
	tr := testutil.NewTrace().
		Open(1, "/old", "O_WRONLY|O_CREAT", 3).
		Close(1, 3).
		Rename(2, "/old", "/new").
		Open(3, "/new", "O_RDONLY", 4).
		Read(3, 4, 1).
		Close(3, 4)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	g := res.Graph()
	assert.True(t, g.HasEdge(1, 2), "creator precedes the rename source access")
	assert.True(t, g.HasEdge(2, 3), "rename destination precedes the reader")
	assert.Equal(t, []string{"/old", "/new"}, res.ExistingFiles())
}

func TestAnalyzer_MkdirUnlinkConflict(t *testing.T) {
	tr := testutil.NewTrace().
		Mkdir(1, "/build").
		Open(2, "/build/out", "O_WRONLY|O_CREAT", 3).
		Close(2, 3).
		Unlink(3, "/build/out")

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	g := res.Graph()
	assert.True(t, g.HasEdge(2, 3))
	assert.False(t, g.HasEdge(1, 2), "distinct paths do not conflict")
}

func TestAnalyzer_StrictParseError(t *testing.T) {
	input := strings.NewReader("garbage that is not strace output\n")

	profile := config.Default()
	profile.Strict = true
	_, err := New(profile).Run(input)
	require.Error(t, err)
	assert.True(t, trace.IsParseError(err))
}

func TestAnalyzer_LenientSkipsGarbage(t *testing.T) {
	tr := testutil.NewTrace().
		Raw("garbage that is not strace output").
		Mkdir(1, "/a")

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Graph().NodeCount())
}

func TestAnalyzer_IgnoredSyscalls(t *testing.T) {
	profile := config.Default()
	profile.IgnoreSyscalls = []string{"stat"}

	tr := testutil.NewTrace().
		Stat(1, "/etc/hosts").
		Mkdir(1, "/a")

	res, err := New(profile).Run(tr.Reader())
	require.NoError(t, err)

	p, ok := res.Process(1)
	require.True(t, ok)
	assert.Len(t, p.Ops, 1, "ignored syscalls never enter the log")
	assert.Equal(t, []string{"/a"}, res.ExistingFiles())
}

func TestAnalyzer_ProcessLogsKeepEverything(t *testing.T) {
	tr := testutil.NewTrace().
		Open(9, "/f", "O_RDONLY", 3).
		Raw(`9 clock_gettime(CLOCK_MONOTONIC, {tv_sec=1, tv_nsec=0}) = 0`).
		Close(9, 3)

	res, err := New(config.Default()).Run(tr.Reader())
	require.NoError(t, err)

	p, ok := res.Process(9)
	require.True(t, ok)
	ops := p.Ops
	require.Len(t, ops, 3)
	assert.Equal(t, op.KindOther, ops[1].Kind)
	// Sequence numbers are strictly increasing within the log.
	assert.Less(t, ops[0].Seq, ops[1].Seq)
	assert.Less(t, ops[1].Seq, ops[2].Seq)
}

// TestAnalyzer_RandomizedDrainProperties generates traces of interleaved
// writers and readers over a small path pool and checks the structural
// guarantees: every process scheduled exactly once, and every edge's
// source batched strictly before its target.
func TestAnalyzer_RandomizedDrainProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		tr := testutil.NewTrace()
		pids := []int{10, 20, 30, 40, 50}
		paths := []string{"/p/0", "/p/1", "/p/2"}

		for step := 0; step < 40; step++ {
			pid := pids[rng.Intn(len(pids))]
			path := paths[rng.Intn(len(paths))]
			if rng.Intn(2) == 0 {
				tr.Raw(fmt.Sprintf("%d openat(AT_FDCWD, %q, O_WRONLY) = 3", pid, path)).
					Write(pid, 3, 1).
					Close(pid, 3)
			} else {
				tr.Raw(fmt.Sprintf("%d openat(AT_FDCWD, %q, O_RDONLY) = 3", pid, path)).
					Read(pid, 3, 1).
					Close(pid, 3)
			}
		}

		res, err := New(config.Default()).Run(tr.Reader())
		require.NoError(t, err, "round %d", round)

		batches, err := res.NewScheduler().Drain()
		require.NoError(t, err, "round %d", round)

		batchOf := make(map[int]int)
		for i, batch := range batches {
			for _, pid := range batch {
				_, dup := batchOf[pid]
				require.False(t, dup, "round %d: pid %d scheduled twice", round, pid)
				batchOf[pid] = i
			}
		}

		g := res.Graph()
		require.Len(t, batchOf, g.NodeCount(), "round %d: every process scheduled", round)
		for _, from := range g.Nodes() {
			for _, to := range g.Successors(from) {
				assert.Less(t, batchOf[from], batchOf[to],
					"round %d: edge %d -> %d must span batches", round, from, to)
			}
		}
	}
}
