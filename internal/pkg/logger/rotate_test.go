package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRotatingFile(t *testing.T, maxBytes int64, backupCount int) *RotatingFile {
	t.Helper()
	f, err := OpenRotatingFile(filepath.Join(t.TempDir(), "actions.log"), maxBytes, backupCount)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestRotatingFile_RotatesIntoNumberedBackups(t *testing.T) {
	f := setupRotatingFile(t, 100, 3)

	// 10 bytes per line, 10 lines fit in one file.
	for i := 0; i < 25; i++ {
		_, err := fmt.Fprintf(f, "line-%04d\n", i)
		require.NoError(t, err)
	}

	active := readLines(t, f.Path())
	backup1 := readLines(t, f.Path()+".1")
	backup2 := readLines(t, f.Path()+".2")

	assert.Len(t, active, 5)
	assert.Len(t, backup1, 10)
	assert.Len(t, backup2, 10)
	assert.Equal(t, "line-0024", active[len(active)-1])
	assert.Equal(t, "line-0010", backup1[0])
	assert.Equal(t, "line-0000", backup2[0])
	assert.NoFileExists(t, f.Path()+".3")

	info, err := os.Stat(f.Path() + ".1")
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(100))
}

func TestRotatingFile_CapsBackupsAndKeepsNewestLines(t *testing.T) {
	f := setupRotatingFile(t, 50, 2)

	const total = 60
	for i := 0; i < total; i++ {
		_, err := fmt.Fprintf(f, "line-%04d\n", i)
		require.NoError(t, err)
	}

	assert.NoFileExists(t, f.Path()+".3")

	// Oldest first: .2, .1, active.
	var all []string
	for _, name := range []string{f.Path() + ".2", f.Path() + ".1", f.Path()} {
		all = append(all, readLines(t, name)...)
	}
	require.NotEmpty(t, all)

	// What survived is a contiguous, in-order suffix of what was written.
	first := total - len(all)
	for i, line := range all {
		assert.Equal(t, fmt.Sprintf("line-%04d", first+i), line)
	}
	assert.Equal(t, 15, len(all))
}

func TestRotatingFile_NoLossBeforeBackupsAreExhausted(t *testing.T) {
	f := setupRotatingFile(t, 100, 5)

	for i := 0; i < 40; i++ {
		_, err := fmt.Fprintf(f, "line-%04d\n", i)
		require.NoError(t, err)
	}

	count := len(readLines(t, f.Path()))
	for i := 1; i <= 5; i++ {
		count += len(readLines(t, fmt.Sprintf("%s.%d", f.Path(), i)))
	}
	assert.Equal(t, 40, count)
}

func TestRotatingFile_ReopenContinuesSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	f, err := OpenRotatingFile(path, 30, 1)
	require.NoError(t, err)
	_, err = f.Write([]byte(strings.Repeat("a", 19) + "\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenRotatingFile(path, 30, 1)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write([]byte(strings.Repeat("b", 19) + "\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{strings.Repeat("a", 19)}, readLines(t, path+".1"))
	assert.Equal(t, []string{strings.Repeat("b", 19)}, readLines(t, path))
}

func TestRotatingFile_DisabledRotation(t *testing.T) {
	f := setupRotatingFile(t, 10, 0)

	for i := 0; i < 5; i++ {
		_, err := fmt.Fprintf(f, "line-%04d\n", i)
		require.NoError(t, err)
	}

	assert.Len(t, readLines(t, f.Path()), 5)
	assert.NoFileExists(t, f.Path()+".1")
}

func TestRotatingFile_OversizedRecordIsWrittenWhole(t *testing.T) {
	f := setupRotatingFile(t, 10, 2)

	long := strings.Repeat("x", 40)
	_, err := f.Write([]byte(long + "\n"))
	require.NoError(t, err)
	_, err = f.Write([]byte("short\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{long}, readLines(t, f.Path()+".1"))
	assert.Equal(t, []string{"short"}, readLines(t, f.Path()))
}

func TestRotatingFile_FailureIsSticky(t *testing.T) {
	f := setupRotatingFile(t, 100, 1)
	require.NoError(t, f.Close())

	_, err := f.Write([]byte("after close\n"))
	assert.Error(t, err)

	require.NoError(t, os.RemoveAll(filepath.Dir(f.Path())))
	err = f.Rotate()
	require.Error(t, err)

	_, err2 := f.Write([]byte("still failed\n"))
	assert.Equal(t, err, err2)
}
