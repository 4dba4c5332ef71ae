package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Decode_SimpleCall(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	rec, err := d.Decode(`909194 openat(AT_FDCWD, "/proc/self/cgroup", O_RDONLY|O_CLOEXEC) = 3`)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 909194, rec.PID)
	assert.Equal(t, int64(1), rec.Seq)
	assert.Equal(t, "openat", rec.Name)
	assert.Equal(t, `AT_FDCWD, "/proc/self/cgroup", O_RDONLY|O_CLOEXEC`, rec.Args)
	assert.Equal(t, int64(3), rec.Ret)
	assert.True(t, rec.OK)
	assert.Equal(t, 1, rec.LineNo)
}

func TestDecoder_Decode_TabSeparatedPID(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	rec, err := d.Decode("42\tmkdir(\"/a\", 0755) = 0")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 42, rec.PID)
	assert.Equal(t, "mkdir", rec.Name)
}

func TestDecoder_Decode_FailedCall(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	rec, err := d.Decode(`12 openat(AT_FDCWD, "/missing", O_RDONLY) = -1 ENOENT (No such file or directory)`)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.False(t, rec.OK)
	assert.Equal(t, int64(-1), rec.Ret)
	assert.Equal(t, "ENOENT", rec.Errno)
}

func TestDecoder_Decode_UnknownReturn(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	rec, err := d.Decode(`12 read(3, "", 0) = ?`)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.OK)
}

func TestDecoder_Decode_SequenceIsGlobal(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	r1, err := d.Decode(`1 mkdir("/a", 0755) = 0`)
	require.NoError(t, err)
	r2, err := d.Decode(`2 mkdir("/b", 0755) = 0`)
	require.NoError(t, err)
	r3, err := d.Decode(`1 mkdir("/c", 0755) = 0`)
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.Seq)
	assert.Equal(t, int64(2), r2.Seq)
	assert.Equal(t, int64(3), r3.Seq)
}

func TestDecoder_Decode_NoiseLines(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	for _, line := range []string{
		"",
		"909194 --- SIGCHLD {si_signo=SIGCHLD, si_code=CLD_EXITED} ---",
		"909194 +++ exited with 0 +++",
	} {
		rec, err := d.Decode(line)
		require.NoError(t, err, "line %q", line)
		assert.Nil(t, rec, "line %q should carry no record", line)
	}
}

func TestDecoder_Decode_UnfinishedResumed(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	rec, err := d.Decode(`10 read(3,  <unfinished ...>`)
	require.NoError(t, err)
	assert.Nil(t, rec, "unfinished half carries no record")

	// Another process runs in between.
	other, err := d.Decode(`11 mkdir("/x", 0755) = 0`)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, int64(1), other.Seq)

	rec, err = d.Decode(`10 <... read resumed>"data", 4096) = 12`)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 10, rec.PID)
	assert.Equal(t, "read", rec.Name)
	assert.Contains(t, rec.Args, "3,")
	assert.Contains(t, rec.Args, `"data", 4096`)
	assert.Equal(t, int64(12), rec.Ret)
	assert.True(t, rec.OK)
	// Sequence is stamped at the resume point: that is when the result
	// became visible.
	assert.Equal(t, int64(2), rec.Seq)
}

func TestDecoder_Decode_ResumedWithoutUnfinished(t *testing.T) {
	d := NewDecoder(PolicyStrict)

	_, err := d.Decode(`10 <... read resumed>"data", 4096) = 12`)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestDecoder_Decode_MissingPID(t *testing.T) {
	strict := NewDecoder(PolicyStrict)
	_, err := strict.Decode(`openat(AT_FDCWD, "/etc/passwd", O_RDONLY) = 3`)
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.LineNo)
	assert.Contains(t, pe.Reason, "pid")

	lenient := NewDecoder(PolicyLenient)
	rec, err := lenient.Decode(`openat(AT_FDCWD, "/etc/passwd", O_RDONLY) = 3`)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDecoder_Decode_MalformedCall(t *testing.T) {
	strict := NewDecoder(PolicyStrict)
	_, err := strict.Decode(`10 not a syscall at all`)
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	lenient := NewDecoder(PolicyLenient)
	rec, err := lenient.Decode(`10 not a syscall at all`)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestClock_Next(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}
