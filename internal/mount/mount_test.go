package mount

import (
	"context"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termfolio/internal/content"
	"termfolio/internal/vfs"
)

var start = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func newTestRoot(t *testing.T) (*dirNode, *vfs.Tree) {
	t.Helper()
	tree := vfs.Build(content.Default())
	root, ok := NewRoot(tree, &Options{StartTime: start}).(*dirNode)
	require.True(t, ok)
	return root, tree
}

func readdir(t *testing.T, n *dirNode) []fuse.DirEntry {
	t.Helper()
	stream, errno := n.Readdir(context.Background())
	require.Equal(t, syscall.Errno(0), errno)

	var entries []fuse.DirEntry
	for stream.HasNext() {
		e, errno := stream.Next()
		require.Equal(t, syscall.Errno(0), errno)
		entries = append(entries, e)
	}
	return entries
}

func TestRoot_ReaddirInDeclaredOrder(t *testing.T) {
	root, _ := newTestRoot(t)

	entries := readdir(t, root)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"about", "education", "skills", "projects", "contact"}, names)
	assert.Equal(t, uint32(fuse.S_IFREG), entries[0].Mode)
	assert.Equal(t, uint32(fuse.S_IFDIR), entries[1].Mode)
}

func TestDir_ChildKinds(t *testing.T) {
	root, _ := newTestRoot(t)

	projects, ok := root.child("projects")
	require.True(t, ok)
	dir, ok := projects.(*dirNode)
	require.True(t, ok)
	assert.Equal(t, "~/projects", dir.path)

	var names []string
	for _, e := range readdir(t, dir) {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"termfolio", "solitaire", "sorting-visualizer"}, names)

	_, ok = root.child("missing")
	assert.False(t, ok)
}

func TestFile_ReadAndGetattr(t *testing.T) {
	root, tree := newTestRoot(t)
	about, _ := tree.Lookup("~/about")

	child, ok := root.child("about")
	require.True(t, ok)
	file, ok := child.(*fileNode)
	require.True(t, ok)

	want := strings.Join(about.Lines, "\n") + "\n"

	var attr fuse.AttrOut
	require.Equal(t, syscall.Errno(0), file.Getattr(context.Background(), nil, &attr))
	assert.Equal(t, uint32(fuse.S_IFREG|0444), attr.Mode)
	assert.Equal(t, uint64(len(want)), attr.Size)
	assert.Equal(t, uint64(start.Unix()), attr.Mtime)

	buf := make([]byte, len(want)+10)
	res, errno := file.Read(context.Background(), nil, buf, 0)
	require.Equal(t, syscall.Errno(0), errno)
	got, status := res.Bytes(make([]byte, len(want)+10))
	require.True(t, status.Ok())
	assert.Equal(t, want, string(got))

	res, _ = file.Read(context.Background(), nil, buf, int64(len(want)))
	got, _ = res.Bytes(nil)
	assert.Empty(t, got)
}

func TestFile_OpenIsReadOnly(t *testing.T) {
	root, _ := newTestRoot(t)
	child, _ := root.child("contact")
	file := child.(*fileNode)

	_, _, errno := file.Open(context.Background(), syscall.O_RDONLY)
	assert.Equal(t, syscall.Errno(0), errno)

	_, _, errno = file.Open(context.Background(), syscall.O_WRONLY)
	assert.Equal(t, syscall.EROFS, errno)
}

func TestDir_Getattr(t *testing.T) {
	root, _ := newTestRoot(t)

	var attr fuse.AttrOut
	require.Equal(t, syscall.Errno(0), root.Getattr(context.Background(), nil, &attr))
	assert.Equal(t, uint32(fuse.S_IFDIR|0555), attr.Mode)
}

func TestReadAt(t *testing.T) {
	data := []byte("hello\n")

	assert.Equal(t, "hel", string(readAt(data, make([]byte, 3), 0)))
	assert.Equal(t, "lo\n", string(readAt(data, make([]byte, 10), 3)))
	assert.Nil(t, readAt(data, make([]byte, 10), 6))
}

func TestNodeMode(t *testing.T) {
	assert.Equal(t, uint32(fuse.S_IFDIR), nodeMode(&dirNode{}))
	assert.Equal(t, uint32(fuse.S_IFREG), nodeMode(&fileNode{}))
}
